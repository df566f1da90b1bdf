package questiongen

import (
	"fmt"

	"github.com/nexthire/nexthire/internal/question"
)

// Validator checks a generated question before it is handed out.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	// Validate returns nil if q passes. batch is true for questions that
	// arrived as part of a multiple-choice batch.
	Validate(q *question.Question, batch bool) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
