package llm

// Outcome classifies a soft-fail LLM operation. Callers that must never
// fail report one of these instead of an error.
type Outcome int

const (
	// OutcomeSuccess means the model produced usable output.
	OutcomeSuccess Outcome = iota
	// OutcomeEmpty means there was nothing to do or nothing usable came back.
	OutcomeEmpty
	// OutcomeParseError means the response did not match the schema.
	OutcomeParseError
	// OutcomeCallError means the provider call itself failed.
	OutcomeCallError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeParseError:
		return "parse_error"
	case OutcomeCallError:
		return "call_error"
	}
	return "unknown"
}

// OutcomeOf maps a Generate or Decode error to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case IsMalformed(err):
		return OutcomeParseError
	default:
		return OutcomeCallError
	}
}
