package questiongen

import (
	"slices"
	"strings"

	"github.com/nexthire/nexthire/internal/grading"
	"github.com/nexthire/nexthire/internal/question"
)

const (
	maxTextLen        = 4000
	maxExplanationLen = 4000
)

// StructuralValidator checks that required fields are present, within
// length limits, and have valid enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *question.Question, _ bool) *ValidationError {
	switch {
	case strings.TrimSpace(q.Text) == "":
		return v.fail("question is empty")
	case len(q.Text) > maxTextLen:
		return v.fail("question exceeds 4000 characters")
	case !q.Type.Valid():
		return v.fail("unknown type " + string(q.Type))
	case q.Type != question.TypeTip && strings.TrimSpace(q.CorrectAnswer) == "":
		return v.fail("correctAnswer is empty")
	case strings.TrimSpace(q.Explanation) == "":
		return v.fail("explanation is empty")
	case len(q.Explanation) > maxExplanationLen:
		return v.fail("explanation exceeds 4000 characters")
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg}
}

// BatchOptionCount is the number of options every batch question carries.
const BatchOptionCount = 4

// ChoiceValidator checks the options of multiple-choice questions: the
// correct answer must be one of them and batch questions carry exactly
// BatchOptionCount.
type ChoiceValidator struct{}

func (v *ChoiceValidator) Name() string { return "choice" }

func (v *ChoiceValidator) Validate(q *question.Question, batch bool) *ValidationError {
	if q.Type != question.TypeMultipleChoice {
		return nil
	}
	if len(q.Options) < 2 {
		return &ValidationError{Validator: v.Name(), Message: "multiple-choice question needs options"}
	}
	if batch && len(q.Options) != BatchOptionCount {
		return &ValidationError{Validator: v.Name(), Message: "batch question must have exactly 4 options"}
	}
	if !slices.ContainsFunc(q.Options, func(o string) bool { return grading.EqualChoice(o, q.CorrectAnswer) }) {
		return &ValidationError{Validator: v.Name(), Message: "correctAnswer is not one of the options"}
	}
	return nil
}
