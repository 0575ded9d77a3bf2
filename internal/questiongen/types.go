// Package questiongen turns textbook text into validated multiple-choice
// questions for the question bank.
package questiongen

import (
	"github.com/abhisek/adaptquiz/internal/llm"
	"github.com/abhisek/adaptquiz/internal/store"
)

// Target narrows generation to one difficulty and/or category. The zero
// Target asks for every category at every difficulty.
type Target struct {
	Difficulty store.Difficulty
	Category   string

	// Existing holds prompts already in the bank for this target, newest
	// first. The model is told to avoid them and repeats are dropped.
	Existing []string
}

// Bulk reports whether t asks for full coverage.
func (t Target) Bulk() bool {
	return t.Difficulty == "" && t.Category == ""
}

// Result is the outcome of one Generate call. Questions is empty unless
// Outcome is llm.OutcomeSuccess.
type Result struct {
	Outcome   llm.Outcome
	Questions []store.Question

	// Dropped counts questions rejected by validation.
	Dropped int

	// Err carries the underlying cause for parse and call errors.
	Err error
}
