package questiongen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/abhisek/adaptquiz/internal/llm"
	"github.com/abhisek/adaptquiz/internal/store"
)

// Generator produces quiz questions from textbook text using an LLM.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// questionOutput is one raw question before normalization and validation.
type questionOutput struct {
	Answer       string   `json:"answer"`
	Prompt       string   `json:"prompt"`
	QuestionType string   `json:"question_type"`
	Hint         string   `json:"hint"`
	Explanation  string   `json:"explanation"`
	Choices      []string `json:"choices"`
	Difficulty   string   `json:"difficulty_level"`
	Category     string   `json:"category"`
}

type generateOutput struct {
	Questions []questionOutput `json:"questions"`
}

// Generate asks the model for questions covering target. It never returns
// an error: failures are reported through Result.Outcome.
func (g *Generator) Generate(ctx context.Context, text string, target Target) Result {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(text, target, g.config)},
		},
		Schema:      QuestionsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	var raw generateOutput
	resp, err := g.provider.Generate(ctx, req)
	if err == nil {
		err = llm.Decode(QuestionsSchema, resp, &raw)
	}
	if err != nil {
		g.logger.Warn("question generation failed", "error", err)
		return Result{Outcome: llm.OutcomeOf(err), Err: err}
	}

	var kept []store.Question
	dropped := 0
	for _, out := range raw.Questions {
		q := normalize(out, target)
		if verr := g.validate(&q, target); verr != nil {
			g.logger.Debug("dropping generated question", "prompt", q.Prompt, "reason", verr)
			dropped++
			continue
		}
		kept = append(kept, q)
	}
	kept, dupes := dedup(kept, target.Existing)
	dropped += dupes

	if len(kept) == 0 {
		return Result{Outcome: llm.OutcomeEmpty, Dropped: dropped}
	}
	return Result{Outcome: llm.OutcomeSuccess, Questions: kept, Dropped: dropped}
}

func (g *Generator) validate(q *store.Question, target Target) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, target); verr != nil {
			return verr
		}
	}
	return nil
}

// normalize trims every field, lowercases category and difficulty, and
// snaps the answer onto the matching choice text. A category that differs
// from the target only in case takes the target's label.
func normalize(out questionOutput, target Target) store.Question {
	q := store.Question{
		Answer:       strings.TrimSpace(out.Answer),
		Prompt:       strings.TrimSpace(out.Prompt),
		QuestionType: strings.TrimSpace(out.QuestionType),
		Hint:         strings.TrimSpace(out.Hint),
		Explanation:  strings.TrimSpace(out.Explanation),
		Difficulty:   store.Difficulty(foldKey(out.Difficulty)),
		Category:     foldKey(out.Category),
	}
	if q.QuestionType == "" {
		q.QuestionType = store.QuestionTypeMultipleChoice
	}
	for _, c := range out.Choices {
		c = strings.TrimSpace(c)
		if foldKey(c) == foldKey(q.Answer) {
			q.Answer = c
		}
		q.Choices = append(q.Choices, c)
	}
	if target.Category != "" && foldKey(target.Category) == q.Category {
		q.Category = target.Category
	}
	return q
}
