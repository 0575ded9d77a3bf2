package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/adaptquiz/internal/store"
)

// QuestionBank is the part of the question store the selector reads.
type QuestionBank interface {
	Find(ctx context.Context, f store.QuestionFilter) (*store.Question, error)
}

// Replenisher generates and stores new questions for a difficulty and
// category. Failed generation stores nothing and is not an error; a
// returned error means the bank could not be read or written.
type Replenisher interface {
	Replenish(ctx context.Context, difficulty store.Difficulty, category string) (int, error)
}

// Selector picks the next question of a quiz.
type Selector struct {
	bank        QuestionBank
	replenisher Replenisher
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector returns a selector over bank. replenisher may be nil, in
// which case an exhausted bank goes straight to the fallback query.
func NewSelector(bank QuestionBank, replenisher Replenisher, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{bank: bank, replenisher: replenisher, logger: logger}
}

// WithRand makes category draws use rng. Tests use it for repeatable draws.
func (s *Selector) WithRand(rng *rand.Rand) *Selector {
	s.rng = rng
	return s
}

// Next chooses the next question for st and returns the updated state
// with that question current and marked used.
//
// The difficulty comes from NextDifficulty and the category from a
// weighted draw. When the bank has nothing unseen for that pair it is
// replenished once and queried again; after that the category is dropped
// and any unseen question of the difficulty is accepted. ErrNoQuestion is
// returned when even that finds nothing. Store errors, including those of
// the replenish step, are returned as is.
func (s *Selector) Next(ctx context.Context, st State) (State, *store.Question, error) {
	if st.Done() {
		return st, nil, ErrCompleted
	}

	difficulty, level := NextDifficulty(st.Mode, st.AnswerTrack, st.LevelIndex)
	category := s.chooseCategory(st.Weights)

	filter := store.QuestionFilter{
		Difficulty: difficulty,
		Category:   category,
		Exclude:    st.UsedIDs,
	}

	q, err := s.bank.Find(ctx, filter)
	if err != nil {
		return st, nil, fmt.Errorf("find question: %w", err)
	}

	if q == nil && s.replenisher != nil {
		n, err := s.replenisher.Replenish(ctx, difficulty, category)
		if err != nil {
			return st, nil, fmt.Errorf("replenish question bank: %w", err)
		}
		s.logger.Info("replenished question bank", "difficulty", difficulty, "category", category, "stored", n)
		if q, err = s.bank.Find(ctx, filter); err != nil {
			return st, nil, fmt.Errorf("find question: %w", err)
		}
	}

	if q == nil && category != "" {
		s.logger.Warn("no question for category, dropping category constraint",
			"difficulty", difficulty, "category", category)
		filter.Category = ""
		if q, err = s.bank.Find(ctx, filter); err != nil {
			return st, nil, fmt.Errorf("find question: %w", err)
		}
	}

	if q == nil {
		return st, nil, ErrNoQuestion
	}

	next := st.withQuestion(q, level)
	return next, next.Current, nil
}

func (s *Selector) chooseCategory(weights map[string]float64) string {
	if s.rng == nil {
		return ChooseCategory(weights, nil)
	}
	// *rand.Rand is not safe for concurrent use.
	s.mu.Lock()
	defer s.mu.Unlock()
	return ChooseCategory(weights, s.rng)
}
