package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure rejects the response.
	Validators []Validator

	// MaxTokens is the token budget for a single question.
	MaxTokens int

	// BatchMaxTokens is the token budget for a batch response.
	BatchMaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ChoiceValidator{},
		},
		MaxTokens:      2048,
		BatchMaxTokens: 8192,
		Temperature:    0.8,
	}
}
