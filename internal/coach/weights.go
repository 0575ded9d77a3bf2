package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/adaptquiz/internal/llm"
	"github.com/abhisek/adaptquiz/internal/store"
)

const weightsSystemPrompt = `You are an expert AI study coach.

The user has completed quizzes in various categories. Your job is to:
1. Analyze their performance (correct/total per category) and the last study plan.
2. Generate category weights based on performance:
   - Higher weights for weaker categories (lower accuracy means higher weight).
   - Categories with no answers yet count as weak.
   - Slightly increase weights for categories mentioned in the last study plan.
   - Use a scale of 0.1 to 1.0 per category.
   - The weights must sum to 1.0.
3. Return one entry per input category, using the category names exactly as given.`

// WeightsResult carries category weights. Weights is empty unless Outcome
// is llm.OutcomeSuccess.
type WeightsResult struct {
	Outcome llm.Outcome
	Weights map[string]float64
	Err     error
}

type weightsOutput struct {
	Weights []struct {
		Category string  `json:"category"`
		Weight   float64 `json:"weight"`
	} `json:"weights"`
}

// Weights computes sampling weights for the next quiz from the user's
// history. A user without history gets OutcomeEmpty and no LLM call.
// Failures never surface as errors; they yield an empty mapping, which
// the selector treats as "no category constraint".
func (c *Coach) Weights(ctx context.Context, in store.WeightsInput) WeightsResult {
	if in.Empty() {
		return WeightsResult{Outcome: llm.OutcomeEmpty, Weights: map[string]float64{}}
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeCategoryWeights)

	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return WeightsResult{Outcome: llm.OutcomeCallError, Weights: map[string]float64{}, Err: fmt.Errorf("encode weights input: %w", err)}
	}

	req := llm.Request{
		System: weightsSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "User's data:\n" + string(data)},
		},
		Schema:      WeightsSchema,
		MaxTokens:   c.config.WeightsMaxTokens,
		Temperature: c.config.WeightsTemperature,
	}

	var out weightsOutput
	resp, err := c.provider.Generate(ctx, req)
	if err == nil {
		err = llm.Decode(WeightsSchema, resp, &out)
	}
	if err != nil {
		c.logger.Warn("category weights failed", "error", err)
		return WeightsResult{Outcome: llm.OutcomeOf(err), Weights: map[string]float64{}, Err: err}
	}

	// Only categories the user could be quizzed on count; match them
	// case-insensitively back to their stored labels.
	known := make(map[string]string, len(in.Stats))
	for _, s := range in.Stats {
		known[strings.ToLower(s.Category)] = s.Category
	}
	raw := make(map[string]float64, len(out.Weights))
	for _, w := range out.Weights {
		label, ok := known[strings.ToLower(strings.TrimSpace(w.Category))]
		if !ok {
			c.logger.Debug("dropping weight for unknown category", "category", w.Category)
			continue
		}
		raw[label] += w.Weight
	}

	weights := Normalize(raw, c.config.MaxCategories)
	if len(weights) == 0 {
		return WeightsResult{Outcome: llm.OutcomeEmpty, Weights: weights}
	}
	return WeightsResult{Outcome: llm.OutcomeSuccess, Weights: weights}
}
