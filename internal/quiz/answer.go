package quiz

import "strings"

// CheckAnswer compares the learner's answer with the correct one.
// Whitespace is trimmed and the comparison is case-insensitive.
func CheckAnswer(userAnswer, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correct))
}
