package quiz

import "github.com/abhisek/adaptquiz/internal/store"

// Aggregate rolls history into per-category counter deltas.
func Aggregate(history []Entry) map[string]store.StatDelta {
	out := make(map[string]store.StatDelta)
	for _, e := range history {
		cat := e.Category
		if cat == "" {
			cat = store.DefaultCategory
		}
		d := out[cat]
		d.Total++
		if e.Correct {
			d.Correct++
		}
		out[cat] = d
	}
	return out
}

// Tally counts answers under one label.
type Tally struct {
	Label     string
	Correct   int
	Incorrect int
}

// Total is Correct + Incorrect.
func (t Tally) Total() int { return t.Correct + t.Incorrect }

// Summary is the end-of-quiz report.
type Summary struct {
	Score        int
	Total        int
	ScorePercent float64
	Categories   []Tally // first-seen order
	Difficulties []Tally // first-seen order
}

// Summarize builds the report for history. ScorePercent is 0 for an empty
// history.
func Summarize(history []Entry, score int) Summary {
	s := Summary{Score: score, Total: len(history)}
	if s.Total > 0 {
		s.ScorePercent = float64(score) / float64(s.Total) * 100
	}

	catIdx := map[string]int{}
	diffIdx := map[string]int{}
	for _, e := range history {
		cat := e.Category
		if cat == "" {
			cat = store.DefaultCategory
		}
		diff := string(e.Difficulty)
		if diff == "" {
			diff = string(store.DifficultyMedium)
		}
		s.Categories = tally(s.Categories, catIdx, cat, e.Correct)
		s.Difficulties = tally(s.Difficulties, diffIdx, diff, e.Correct)
	}
	return s
}

func tally(ts []Tally, idx map[string]int, label string, correct bool) []Tally {
	i, ok := idx[label]
	if !ok {
		i = len(ts)
		idx[label] = i
		ts = append(ts, Tally{Label: label})
	}
	if correct {
		ts[i].Correct++
	} else {
		ts[i].Incorrect++
	}
	return ts
}
