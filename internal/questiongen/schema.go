package questiongen

import "github.com/abhisek/adaptquiz/internal/llm"

// QuestionsSchema defines the JSON schema for question generation responses.
var QuestionsSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "Multiple-choice quiz questions drawn from a textbook chapter",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionDefinition,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

var questionDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"answer": map[string]any{
			"type":        "string",
			"description": "The correct option, copied exactly from choices",
		},
		"prompt": map[string]any{
			"type":        "string",
			"description": "A clear, syllabus-aligned question",
		},
		"question_type": map[string]any{
			"type": "string",
			"enum": []any{"multiple_choice"},
		},
		"hint": map[string]any{
			"type":        "string",
			"description": "A short hint related to the concept",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Why the correct option is right",
		},
		"choices": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    4,
			"maxItems":    4,
			"description": "Exactly 4 options: the answer and 3 plausible distractors",
		},
		"difficulty_level": map[string]any{
			"type": "string",
			"enum": []any{"easy", "medium", "hard"},
		},
		"category": map[string]any{
			"type":        "string",
			"description": "The main concept keyword, e.g. gravity or relative motion",
		},
	},
	"required": []any{
		"answer", "prompt", "question_type", "hint",
		"explanation", "choices", "difficulty_level", "category",
	},
	"additionalProperties": false,
}
