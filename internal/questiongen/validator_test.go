package questiongen

import (
	"testing"

	"github.com/abhisek/adaptquiz/internal/store"
)

func validQuestion() store.Question {
	return store.Question{
		Answer:       "9.8 m/s^2",
		Prompt:       "What is the acceleration due to gravity near the Earth's surface?",
		QuestionType: store.QuestionTypeMultipleChoice,
		Hint:         "Think about free fall.",
		Explanation:  "Objects in free fall near the surface accelerate at about 9.8 m/s^2.",
		Choices:      []string{"9.8 m/s^2", "1 m/s^2", "98 m/s^2", "0 m/s^2"},
		Difficulty:   store.DifficultyEasy,
		Category:     "gravity",
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(q *store.Question)
		validator string // "" means every validator passes
	}{
		{"valid", func(q *store.Question) {}, ""},
		{"empty prompt", func(q *store.Question) { q.Prompt = "" }, "structural"},
		{"empty answer", func(q *store.Question) { q.Answer = "" }, "structural"},
		{"empty explanation", func(q *store.Question) { q.Explanation = "" }, "structural"},
		{"unknown type", func(q *store.Question) { q.QuestionType = "free_text" }, "structural"},
		{"unknown difficulty", func(q *store.Question) { q.Difficulty = "expert" }, "structural"},
		{"three choices", func(q *store.Question) { q.Choices = q.Choices[:3] }, "choices"},
		{"duplicate choices", func(q *store.Question) { q.Choices[3] = " 1 M/S^2" }, "choices"},
		{"empty choice", func(q *store.Question) { q.Choices[2] = " " }, "choices"},
		{"answer missing", func(q *store.Question) { q.Answer = "10 m/s^2" }, "choices"},
		{"answer differs in case", func(q *store.Question) { q.Answer = "9.8 M/S^2" }, ""},
		{"empty category", func(q *store.Question) { q.Category = "" }, "category"},
		{"structural category", func(q *store.Question) { q.Category = "summary" }, "category"},
	}

	validators := DefaultConfig().Validators
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)

			failed := ""
			for _, v := range validators {
				if err := v.Validate(&q, Target{}); err != nil {
					failed = err.Validator
					break
				}
			}
			if failed != tt.validator {
				t.Fatalf("failed validator = %q, want %q", failed, tt.validator)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	q := normalize(questionOutput{
		Answer:      " velocity ",
		Prompt:      "  Which quantity is a vector? ",
		Choices:     []string{" Velocity", "Speed ", "Mass", "Time"},
		Difficulty:  "Medium",
		Category:    " Kinematics ",
		Explanation: "Velocity has direction.",
	}, Target{})

	if q.Answer != "Velocity" {
		t.Errorf("answer = %q, want the choice text", q.Answer)
	}
	if q.Prompt != "Which quantity is a vector?" {
		t.Errorf("prompt = %q", q.Prompt)
	}
	if q.Difficulty != store.DifficultyMedium {
		t.Errorf("difficulty = %q", q.Difficulty)
	}
	if q.Category != "kinematics" {
		t.Errorf("category = %q", q.Category)
	}
	if q.QuestionType != store.QuestionTypeMultipleChoice {
		t.Errorf("question type = %q", q.QuestionType)
	}
	if q.Choices[1] != "Speed" {
		t.Errorf("choices not trimmed: %q", q.Choices)
	}
}
