package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/abhisek/adaptquiz/internal/store"
)

func TestSelector_ExcludesUsedQuestions(t *testing.T) {
	bank := &fakeBank{}
	for range 10 {
		bank.add(store.DifficultyEasy, "gravity")
	}
	sel := NewSelector(bank, nil, nil)
	st := Start(map[string]float64{"gravity": 1}, 10, t0).WithMode(Mode("easy"))

	seen := map[int64]bool{}
	for range 10 {
		var q *store.Question
		var err error
		st, q, err = sel.Next(context.Background(), st)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if seen[q.ID] {
			t.Fatalf("question %d shown twice", q.ID)
		}
		seen[q.ID] = true
		st, _ = st.Answer("A")
	}
	if len(st.UsedIDs) != 10 {
		t.Fatalf("expected 10 used ids, got %d", len(st.UsedIDs))
	}
}

func TestSelector_ProgressiveQuizNeverRepeats(t *testing.T) {
	const perQuiz = 10
	bank := &fakeBank{}
	for _, d := range store.Difficulties {
		for range perQuiz {
			bank.add(d, "gravity")
		}
	}
	sel := NewSelector(bank, nil, nil)
	st := Start(map[string]float64{"gravity": 1}, perQuiz, t0)

	seen := map[int64]bool{}
	for i := range perQuiz {
		var q *store.Question
		var err error
		st, q, err = sel.Next(context.Background(), st)
		if err != nil {
			t.Fatalf("Next at %d: %v", i, err)
		}
		if seen[q.ID] {
			t.Fatalf("question %d shown twice", q.ID)
		}
		seen[q.ID] = true
		// Mix in wrong answers once past the warmup.
		answer := "A"
		if i >= 6 && i%2 == 0 {
			answer = "B"
		}
		if st, err = st.Answer(answer); err != nil {
			t.Fatalf("Answer: %v", err)
		}
	}
	if len(st.UsedIDs) != perQuiz {
		t.Fatalf("expected %d used ids, got %d", perQuiz, len(st.UsedIDs))
	}
}

func TestSelector_ReplenishesOnceThenRetries(t *testing.T) {
	bank := &fakeBank{}
	rep := &fakeReplenisher{bank: bank, count: 2}
	sel := NewSelector(bank, rep, nil)

	st, q, err := sel.Next(context.Background(), Start(map[string]float64{"optics": 1}, 5, t0))
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(rep.calls) != 1 || rep.calls[0] != "easy/optics" {
		t.Fatalf("unexpected replenish calls %v", rep.calls)
	}
	if q.Category != "optics" || st.Current.ID != q.ID {
		t.Fatalf("unexpected question %+v", q)
	}
	if len(bank.finds) != 2 {
		t.Fatalf("expected query, replenish, query; got %d queries", len(bank.finds))
	}
}

func TestSelector_FallbackDropsCategory(t *testing.T) {
	bank := &fakeBank{}
	bank.add(store.DifficultyEasy, "velocity")
	rep := &fakeReplenisher{bank: bank, count: 0}
	sel := NewSelector(bank, rep, nil)

	_, q, err := sel.Next(context.Background(), Start(map[string]float64{"optics": 1}, 5, t0))
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if q.Category != "velocity" {
		t.Fatalf("expected fallback question, got %+v", q)
	}
	last := bank.finds[len(bank.finds)-1]
	if last.Category != "" || last.Difficulty != store.DifficultyEasy {
		t.Fatalf("fallback query should keep difficulty only: %+v", last)
	}
}

func TestSelector_FallbackStillExcludesUsed(t *testing.T) {
	bank := &fakeBank{}
	bank.add(store.DifficultyEasy, "velocity")
	sel := NewSelector(bank, nil, nil)

	st := Start(map[string]float64{"optics": 1}, 5, t0)
	st, _, err := sel.Next(context.Background(), st)
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	st, _ = st.Answer("A")

	if _, _, err := sel.Next(context.Background(), st); !errors.Is(err, ErrNoQuestion) {
		t.Fatalf("expected ErrNoQuestion once the bank is used up, got %v", err)
	}
}

func TestSelector_ReplenishStoreErrorPropagates(t *testing.T) {
	bank := &fakeBank{}
	bank.add(store.DifficultyEasy, "velocity")
	saveErr := errors.New("save generated questions: database is locked")
	rep := &fakeReplenisher{bank: bank, err: saveErr}

	st := Start(map[string]float64{"optics": 1}, 5, t0)
	got, q, err := NewSelector(bank, rep, nil).Next(context.Background(), st)
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected the replenish error, got %v", err)
	}
	if q != nil || len(got.UsedIDs) != 0 {
		t.Fatalf("state should be unchanged on error, got %+v", got)
	}
	if len(bank.finds) != 1 {
		t.Fatalf("no fallback query expected after a store error, got %d queries", len(bank.finds))
	}
}

func TestSelector_EmptyWeightsMeanNoCategory(t *testing.T) {
	bank := &fakeBank{}
	bank.add(store.DifficultyEasy, "gravity")
	sel := NewSelector(bank, nil, nil)

	_, q, err := sel.Next(context.Background(), Start(nil, 5, t0))
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if q == nil || bank.finds[0].Category != "" {
		t.Fatalf("expected an unconstrained query, got %+v", bank.finds[0])
	}
}

func TestSelector_StoreErrorPropagates(t *testing.T) {
	bank := &fakeBank{err: errors.New("disk I/O error")}
	_, _, err := NewSelector(bank, nil, nil).Next(context.Background(), Start(nil, 5, t0))
	if err == nil || errors.Is(err, ErrNoQuestion) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSelector_FixedModeAndLevel(t *testing.T) {
	bank := &fakeBank{}
	bank.add(store.DifficultyHard, "gravity")
	sel := NewSelector(bank, nil, nil).WithRand(rand.New(rand.NewPCG(1, 1)))

	st := Start(map[string]float64{"gravity": 1}, 5, t0).WithMode(Mode("hard"))
	_, q, err := sel.Next(context.Background(), st)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if q.Difficulty != store.DifficultyHard {
		t.Fatalf("expected hard question, got %s", q.Difficulty)
	}
}

func TestSelector_AllCorrectRun(t *testing.T) {
	const perQuiz = 10
	bank := &fakeBank{}
	for _, d := range store.Difficulties {
		for range perQuiz {
			bank.add(d, "gravity")
			bank.add(d, "velocity")
		}
	}
	sel := NewSelector(bank, nil, nil)
	st := Start(map[string]float64{"gravity": 0.5, "velocity": 0.5}, perQuiz, t0)

	for !st.Done() {
		var q *store.Question
		var err error
		st, q, err = sel.Next(context.Background(), st)
		if err != nil {
			t.Fatalf("Next at %d: %v", st.Index, err)
		}
		if st, err = st.Answer(q.Answer); err != nil {
			t.Fatalf("Answer: %v", err)
		}
	}

	if st.Score != perQuiz || st.Phase != PhaseCompleted {
		t.Fatalf("expected a perfect completed quiz, got %+v", st)
	}
	sum := Summarize(st.History, st.Score)
	if sum.ScorePercent != 100 {
		t.Fatalf("expected 100%%, got %v", sum.ScorePercent)
	}
	for _, c := range sum.Categories {
		if c.Incorrect != 0 {
			t.Fatalf("expected only correct tallies, got %+v", c)
		}
	}
	// Six warmup answers stay easy; after that each clean streak moves up.
	if st.History[6].Difficulty != store.DifficultyMedium || st.History[9].Difficulty != store.DifficultyHard {
		t.Fatalf("difficulty did not progress: %s, %s", st.History[6].Difficulty, st.History[9].Difficulty)
	}
}
