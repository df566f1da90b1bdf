package questiongen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nexthire/nexthire/internal/question"
)

const systemPrompt = `You are an interviewer at a top technology company preparing candidates for software engineering interviews.

Rules:
- Questions must be self-contained and answerable without external material.
- For multiple-choice questions, exactly one option is correct and correctAnswer repeats it verbatim.
- For coding and error-finding questions, correctAnswer is the corrected code or the exact fix.
- For tips, put the advice in the question text and a short summary in correctAnswer.
- Keep explanations clear and concise.`

// buildOnePrompt asks for a single new question.
func buildOnePrompt(req OneRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate one high-quality, %s-level practice question for a software engineering interview. ", req.Difficulty)
	fmt.Fprintf(&b, "The question should be from the %q category.", req.Category)
	if req.Language != "" {
		fmt.Fprintf(&b, " The programming language should be %s.", req.Language)
	} else {
		b.WriteString(" For coding questions, provide a good mix of questions, including some conceptual multiple choice and some error-finding or simple coding exercises.")
	}
	return b.String()
}

// translatable is the subset of a question sent for translation. The id
// stays local.
type translatable struct {
	Text          string        `json:"question"`
	Type          question.Type `json:"type"`
	Options       []string      `json:"options,omitempty"`
	CodeSnippet   string        `json:"codeSnippet,omitempty"`
	SampleInputs  string        `json:"sampleInputs,omitempty"`
	SampleOutputs string        `json:"sampleOutputs,omitempty"`
	Language      string        `json:"language,omitempty"`
	CompanyTags   []string      `json:"companyTags,omitempty"`
	CorrectAnswer string        `json:"correctAnswer"`
	Explanation   string        `json:"explanation"`
}

// buildTranslatePrompt asks for q rewritten in lang.
func buildTranslatePrompt(q *question.Question, lang string) (string, error) {
	body, err := json.Marshal(translatable{
		Text:          q.Text,
		Type:          q.Type,
		Options:       q.Options,
		CodeSnippet:   q.CodeSnippet,
		SampleInputs:  q.SampleInputs,
		SampleOutputs: q.SampleOutputs,
		Language:      q.Language,
		CompanyTags:   q.CompanyTags,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	})
	if err != nil {
		return "", fmt.Errorf("encode question: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following interview question to %s. ", lang)
	fmt.Fprintf(&b, "Provide the question text, code snippet (if any), options (if any), the correct answer, and explanation, all adapted for %s. ", lang)
	b.WriteString("Do not change the company tags. Question: ")
	b.Write(body)
	return b.String(), nil
}

// buildBatchPrompt asks for req.Count multiple-choice questions.
func buildBatchPrompt(req BatchRequest) string {
	return fmt.Sprintf(
		"Generate %d high-quality, %s-level **multiple-choice** practice questions for a software engineering interview from the %q category. Each question must have exactly %d options.",
		req.Count, req.Difficulty, req.Topic, BatchOptionCount,
	)
}
