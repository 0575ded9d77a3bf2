package coach

import "github.com/abhisek/adaptquiz/internal/llm"

// WeightsSchema defines the response of the category-weights request.
var WeightsSchema = &llm.Schema{
	Name:        "category-weights",
	Description: "Sampling weight per quiz category, higher for weaker categories",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"weights": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{
							"type":        "string",
							"description": "A category name exactly as given in the input",
						},
						"weight": map[string]any{
							"type":        "number",
							"minimum":     0,
							"maximum":     1,
							"description": "Weight between 0.1 and 1.0",
						},
					},
					"required":             []any{"category", "weight"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"weights"},
		"additionalProperties": false,
	},
}

// StudyPlanSchema defines the response of the study-plan request.
var StudyPlanSchema = &llm.Schema{
	Name:        "study-plan",
	Description: "Personalized study recommendations after a quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recommendations": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
				"maxItems": maxRecommendations,
				"description": "3 to 5 short, actionable recommendations. " +
					"Inline HTML such as <strong> is allowed; no Markdown.",
			},
		},
		"required":             []any{"recommendations"},
		"additionalProperties": false,
	},
}
