package questiongen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/adaptquiz/internal/ingest"
	"github.com/abhisek/adaptquiz/internal/llm"
	"github.com/abhisek/adaptquiz/internal/store"
)

// Replenisher refills the question bank from the textbook on demand.
type Replenisher struct {
	source    ingest.Source
	generator *Generator
	questions store.QuestionRepo
	logger    *slog.Logger

	// mu serializes generation so concurrent misses on the bank do not
	// each pay for an LLM call.
	mu sync.Mutex
}

// NewReplenisher wires a source, a generator and the bank together.
func NewReplenisher(source ingest.Source, gen *Generator, questions store.QuestionRepo, logger *slog.Logger) *Replenisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replenisher{source: source, generator: gen, questions: questions, logger: logger}
}

// Replenish generates questions for (difficulty, category) and stores
// them. Empty arguments widen the target; both empty asks for full
// coverage of the chapter. Prompts already in the bank for the target are
// listed to the model and never stored twice. It returns how many
// questions were stored. Source and generation failures store nothing and
// are only logged; store failures are returned.
func (r *Replenisher) Replenish(ctx context.Context, difficulty store.Difficulty, category string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text, err := r.source.Text(ctx)
	if err != nil {
		r.logger.Error("read textbook source", "error", err)
		return 0, nil
	}

	existing, err := r.questions.Prompts(ctx, difficulty, category, 0)
	if err != nil {
		return 0, fmt.Errorf("load existing prompts: %w", err)
	}

	target := Target{Difficulty: difficulty, Category: category, Existing: existing}
	res := r.generator.Generate(ctx, text, target)
	r.logger.Info("generated questions",
		"difficulty", difficulty,
		"category", category,
		"outcome", res.Outcome,
		"kept", len(res.Questions),
		"dropped", res.Dropped,
		"existing", len(existing),
	)
	if res.Outcome != llm.OutcomeSuccess {
		return 0, nil
	}

	if err := r.questions.Save(ctx, res.Questions); err != nil {
		return 0, fmt.Errorf("save generated questions: %w", err)
	}
	return len(res.Questions), nil
}
