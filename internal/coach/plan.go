package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/adaptquiz/internal/llm"
	"github.com/abhisek/adaptquiz/internal/quiz"
)

const maxRecommendations = 5

// FallbackPlan is shown when no plan could be generated.
const FallbackPlan = "<ul><li>Focus on weak areas and practice more.</li><li>Review explanations from your answers.</li></ul>"

const planSystemPrompt = `You are an expert tutor creating a personalized study plan based on quiz results.

Write 3 to 5 concise recommendations. Make them motivational, specific to the weak areas, and actionable.
Use HTML for emphasis (for example <strong>), never Markdown. Do not wrap items in <li> or <ul>.`

type planOutput struct {
	Recommendations []string `json:"recommendations"`
}

// StudyPlan turns a quiz summary into an HTML list of recommendations.
// It never fails: any problem yields FallbackPlan.
func (c *Coach) StudyPlan(ctx context.Context, sum quiz.Summary) string {
	ctx = llm.WithPurpose(ctx, llm.PurposeStudyPlan)

	req := llm.Request{
		System: planSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPlanMessage(sum)},
		},
		Schema:      StudyPlanSchema,
		MaxTokens:   c.config.PlanMaxTokens,
		Temperature: c.config.PlanTemperature,
	}

	var out planOutput
	resp, err := c.provider.Generate(ctx, req)
	if err == nil {
		err = llm.Decode(StudyPlanSchema, resp, &out)
	}
	if err != nil {
		c.logger.Warn("study plan failed, using fallback", "outcome", llm.OutcomeOf(err), "error", err)
		return FallbackPlan
	}

	var b strings.Builder
	n := 0
	for _, rec := range out.Recommendations {
		item := strings.TrimSpace(sanitize(rec, inlineTags))
		if item == "" {
			continue
		}
		if n == 0 {
			b.WriteString("<ul>")
		}
		b.WriteString("<li>")
		b.WriteString(item)
		b.WriteString("</li>")
		if n++; n == maxRecommendations {
			break
		}
	}
	if n == 0 {
		c.logger.Warn("study plan had no usable recommendations, using fallback")
		return FallbackPlan
	}
	b.WriteString("</ul>")
	return b.String()
}

func buildPlanMessage(sum quiz.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall score: %.1f%% (%d correct out of %d).\n", sum.ScorePercent, sum.Score, sum.Total)
	fmt.Fprintf(&b, "Performance by category: %s.\n", tallies(sum.Categories, "No category data"))
	fmt.Fprintf(&b, "Performance by difficulty: %s.\n", tallies(sum.Difficulties, "No difficulty data"))
	return b.String()
}

func tallies(ts []quiz.Tally, none string) string {
	if len(ts) == 0 {
		return none
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = fmt.Sprintf("%s: %d correct out of %d", t.Label, t.Correct, t.Total())
	}
	return strings.Join(parts, ", ")
}
