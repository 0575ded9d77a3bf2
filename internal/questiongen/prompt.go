package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert teacher creating quiz questions strictly from a given textbook chapter.
The goal is to test conceptual understanding based only on the provided syllabus-aligned text. You may use external facts only to support core concepts from the text.

For each question:
- answer: the correct option, exactly as it appears in choices.
- prompt: a clear, syllabus-aligned question.
- question_type: always "multiple_choice".
- hint: a short hint related to the concept.
- explanation: why the correct option is right.
- choices: exactly 4 distinct options, the answer plus 3 plausible distractors.
- difficulty_level: one of "easy", "medium", "hard".
- category: the main concept keyword only, taken from the textbook content. Use high-level topics like "acceleration", "gravity", "velocity", "relative motion". Avoid vague or structural categories like "introduction", "summary", "example", "definition", "background".

Return only the JSON object described by the schema.`

// buildUserMessage constructs the user message for a target.
func buildUserMessage(text string, target Target, cfg Config) string {
	var b strings.Builder

	switch {
	case target.Bulk():
		b.WriteString("For every main concept (category) in the chapter, create one question for each difficulty level: easy, medium and hard. ")
		b.WriteString("Every combination of category and difficulty_level must appear exactly once.\n")
	default:
		fmt.Fprintf(&b, "Generate %d new questions.\n", cfg.PerTarget)
		if target.Difficulty != "" {
			fmt.Fprintf(&b, "Difficulty: every question must have difficulty_level %q.\n", target.Difficulty)
		}
		if target.Category != "" {
			fmt.Fprintf(&b, "Category: every question must be about %q and use that exact category label.\n", target.Category)
		}
	}

	if avoid := buildAvoidList(target.Existing, cfg.MaxPriorQuestions); avoid != "" {
		b.WriteString("\nThese questions are already in the bank. Do not repeat or rephrase them:\n")
		b.WriteString(avoid)
	}

	b.WriteString("\nTextbook content:\n")
	b.WriteString(text)
	return b.String()
}
