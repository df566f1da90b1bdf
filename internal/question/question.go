package question

import "slices"

// Question is a single practice question issued to a session.
// A Question is treated as immutable once it has been handed out; use
// Clone before modifying a copy.
type Question struct {
	// ID is an opaque unique token assigned when the question is received.
	ID string `json:"id"`

	// Text is the question prompt shown to the candidate.
	Text string `json:"question"`

	// Type indicates how the candidate answers the question.
	Type Type `json:"type"`

	// Options is populated for questions answered by picking a choice.
	Options []string `json:"options,omitempty"`

	// CodeSnippet accompanies coding and error-finding questions.
	CodeSnippet string `json:"codeSnippet,omitempty"`

	// SampleInputs and SampleOutputs describe LeetCode style problems.
	SampleInputs  string `json:"sampleInputs,omitempty"`
	SampleOutputs string `json:"sampleOutputs,omitempty"`

	// Language is the programming language of the snippet, if any.
	Language string `json:"language,omitempty"`

	// CompanyTags lists companies known to ask this kind of question.
	CompanyTags []string `json:"companyTags,omitempty"`

	// CorrectAnswer is the exact string graded against. For multiple
	// choice it is one of Options.
	CorrectAnswer string `json:"correctAnswer"`

	// Explanation is shown after the candidate answers.
	Explanation string `json:"explanation"`
}

// Type describes the answer mode of a question.
type Type string

const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeCoding         Type = "coding"
	TypeErrorFinding   Type = "error-finding"
	TypeTip            Type = "tip"
)

// Types lists every question type in display order.
var Types = []Type{TypeMultipleChoice, TypeCoding, TypeErrorFinding, TypeTip}

// Valid reports whether t is a known question type.
func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

// HasChoices reports whether the question is answered by picking an option.
func (q *Question) HasChoices() bool {
	return len(q.Options) > 0
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	q.CompanyTags = slices.Clone(q.CompanyTags)
	return q
}
