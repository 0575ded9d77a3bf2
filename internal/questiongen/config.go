package questiongen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure drops the question.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response. Bulk generation
	// returns many questions at once, so this is much larger than a
	// single-question budget.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// PerTarget is how many questions a targeted request asks for.
	PerTarget int

	// MaxPriorQuestions caps how many existing prompts are listed in the
	// avoid-list of the user message.
	MaxPriorQuestions int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ChoicesValidator{},
			&CategoryValidator{},
		},
		MaxTokens:   8192,
		Temperature: 0.7,
		PerTarget:   5,

		MaxPriorQuestions: 20,
	}
}
