package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/adaptquiz/internal/store"
)

// Validator checks a generated question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "choices".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *store.Question, target Target) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that required text fields are present and
// within length limits, and that the difficulty is known.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *store.Question, _ Target) *ValidationError {
	switch {
	case q.Prompt == "":
		return v.fail("prompt is empty")
	case len(q.Prompt) > 1000:
		return v.fail("prompt exceeds 1000 characters")
	case q.Answer == "":
		return v.fail("answer is empty")
	case q.Explanation == "":
		return v.fail("explanation is empty")
	case len(q.Explanation) > 2000:
		return v.fail("explanation exceeds 2000 characters")
	case q.QuestionType != store.QuestionTypeMultipleChoice:
		return v.fail(fmt.Sprintf("question_type %q is not supported", q.QuestionType))
	}
	if _, ok := store.ParseDifficulty(string(q.Difficulty)); !ok {
		return v.fail(fmt.Sprintf("difficulty_level %q is not easy, medium or hard", q.Difficulty))
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg}
}

// ChoicesValidator requires exactly 4 distinct options, one of which is
// the answer.
type ChoicesValidator struct{}

func (v *ChoicesValidator) Name() string { return "choices" }

func (v *ChoicesValidator) Validate(q *store.Question, _ Target) *ValidationError {
	if len(q.Choices) != 4 {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("expected 4 choices, got %d", len(q.Choices))}
	}
	seen := make(map[string]bool, len(q.Choices))
	found := false
	for _, c := range q.Choices {
		key := foldKey(c)
		if key == "" {
			return &ValidationError{Validator: v.Name(), Message: "empty choice"}
		}
		if seen[key] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("duplicate choice %q", c)}
		}
		seen[key] = true
		if key == foldKey(q.Answer) {
			found = true
		}
	}
	if !found {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("answer %q is not among the choices", q.Answer)}
	}
	return nil
}

// structuralCategories are section labels rather than concepts.
var structuralCategories = map[string]bool{
	"introduction": true,
	"summary":      true,
	"example":      true,
	"examples":     true,
	"definition":   true,
	"definitions":  true,
	"background":   true,
	"overview":     true,
	"conclusion":   true,
	"exercise":     true,
	"exercises":    true,
	"review":       true,
}

// CategoryValidator rejects missing and structural categories.
type CategoryValidator struct{}

func (v *CategoryValidator) Name() string { return "category" }

func (v *CategoryValidator) Validate(q *store.Question, _ Target) *ValidationError {
	if q.Category == "" {
		return &ValidationError{Validator: v.Name(), Message: "category is empty"}
	}
	if structuralCategories[q.Category] {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("category %q is structural, not a concept", q.Category)}
	}
	return nil
}

// foldKey is the comparison form used for answers and choices.
func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
