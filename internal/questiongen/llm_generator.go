package questiongen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nexthire/nexthire/internal/llm"
	"github.com/nexthire/nexthire/internal/question"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// batchOutput is the raw batch response before validation.
type batchOutput struct {
	Questions []question.Question `json:"questions"`
}

// GenerateOne produces a single question, or a translation when
// req.TranslateFrom is set.
func (g *LLMGenerator) GenerateOne(ctx context.Context, req OneRequest) (*question.Question, error) {
	var (
		prompt string
		err    error
	)
	if req.TranslateFrom != nil {
		ctx = llm.WithPurpose(ctx, llm.PurposeTranslate)
		prompt, err = buildTranslatePrompt(req.TranslateFrom, req.Language)
		if err != nil {
			return nil, err
		}
	} else {
		ctx = llm.WithPurpose(ctx, llm.PurposePracticeQuestion)
		prompt = buildOnePrompt(req)
	}

	r := llm.UserPrompt(systemPrompt, prompt, PracticeQuestionSchema, g.config.MaxTokens)
	r.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	var q question.Question
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		return nil, &FormatError{Msg: MsgInvalidQuestion, Err: err}
	}
	q.ID = ""
	if q.Language == "" && req.Language != "" && q.CodeSnippet != "" {
		q.Language = req.Language
	}

	if verr := g.validate(&q, false); verr != nil {
		return nil, &FormatError{Msg: MsgInvalidQuestion, Err: verr}
	}
	return &q, nil
}

// GenerateBatch produces multiple-choice questions for one topic. The
// type of every returned question is forced to multiple-choice.
func (g *LLMGenerator) GenerateBatch(ctx context.Context, req BatchRequest) ([]question.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeDailyBatch)

	r := llm.UserPrompt(systemPrompt, buildBatchPrompt(req), BatchSchema, g.config.BatchMaxTokens)
	r.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("generate %s batch: %w", req.Topic, err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &FormatError{Msg: MsgInvalidBatch, Err: err}
	}

	for i := range out.Questions {
		q := &out.Questions[i]
		q.ID = ""
		q.Type = question.TypeMultipleChoice
		if verr := g.validate(q, true); verr != nil {
			return nil, &FormatError{Msg: MsgInvalidBatch, Err: fmt.Errorf("question %d: %w", i+1, verr)}
		}
	}
	return out.Questions, nil
}

func (g *LLMGenerator) validate(q *question.Question, batch bool) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, batch); verr != nil {
			return verr
		}
	}
	return nil
}
