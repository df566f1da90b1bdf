package questiongen

import (
	"context"

	"github.com/nexthire/nexthire/internal/question"
)

// Generator produces practice questions.
type Generator interface {
	// GenerateOne produces a single question, or translates
	// req.TranslateFrom into req.Language when it is set.
	GenerateOne(ctx context.Context, req OneRequest) (*question.Question, error)

	// GenerateBatch produces req.Count multiple-choice questions.
	GenerateBatch(ctx context.Context, req BatchRequest) ([]question.Question, error)
}

// OneRequest asks for a single question.
type OneRequest struct {
	// Category is the display name used in the prompt, e.g. "Aptitude".
	Category   string
	Difficulty question.Difficulty

	// Language is the target programming language. Empty asks for a mix.
	Language string

	// TranslateFrom, when set, is rewritten for Language instead of
	// generating a new question.
	TranslateFrom *question.Question
}

// BatchRequest asks for several multiple-choice questions on one topic.
type BatchRequest struct {
	Topic      string
	Difficulty question.Difficulty
	Count      int
}
