package llm

import "context"

// Purpose labels why a request was made. It is recorded with every
// logged LLM event so the llm command can filter by it.
type Purpose string

const (
	PurposeUnknown         Purpose = "unknown"
	PurposeQuestionGen     Purpose = "question-gen"
	PurposeCategoryWeights Purpose = "category-weights"
	PurposeStudyPlan       Purpose = "study-plan"
)

// Purposes lists the labels the application issues requests under.
func Purposes() []Purpose {
	return []Purpose{PurposeQuestionGen, PurposeCategoryWeights, PurposeStudyPlan}
}

type ctxKey struct{}

func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(ctxKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
