package questiongen

import "github.com/nexthire/nexthire/internal/llm"

var questionTypes = []any{"multiple-choice", "coding", "error-finding", "tip"}

// PracticeQuestionSchema defines the response for a single practice
// question or a translation.
var PracticeQuestionSchema = &llm.Schema{
	Name:        "practice-question",
	Description: "A single software engineering interview practice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The practice question text.",
			},
			"type": map[string]any{
				"type":        "string",
				"enum":        questionTypes,
				"description": "The type of question.",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "An array of 4-5 options for multiple-choice questions.",
			},
			"codeSnippet": map[string]any{
				"type":        "string",
				"description": "A snippet of code for error-finding or coding questions.",
			},
			"sampleInputs": map[string]any{
				"type":        "string",
				"description": "Example inputs for a coding problem, if applicable.",
			},
			"sampleOutputs": map[string]any{
				"type":        "string",
				"description": "Expected outputs for the sample inputs, if applicable.",
			},
			"language": map[string]any{
				"type":        "string",
				"description": "The programming language of the code snippet, if applicable.",
			},
			"companyTags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "A list of 1-3 top tech companies that frequently ask this type of question.",
			},
			"correctAnswer": map[string]any{
				"type":        "string",
				"description": "The correct answer. For multiple-choice, it's one of the options. For coding, it's the correct code.",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "A clear, detailed explanation of the correct answer and why other options are incorrect.",
			},
		},
		"required": []any{"question", "type", "correctAnswer", "explanation"},
	},
}

var multipleChoiceItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{
			"type":        "string",
			"description": "The practice question text.",
		},
		"type": map[string]any{
			"type":        "string",
			"enum":        []any{"multiple-choice"},
			"description": `The type MUST be "multiple-choice".`,
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    BatchOptionCount,
			"maxItems":    BatchOptionCount,
			"description": "An array of EXACTLY 4 string options for the multiple-choice question.",
		},
		"companyTags": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "A list of 1-3 top tech companies that frequently ask this type of question.",
		},
		"correctAnswer": map[string]any{
			"type":        "string",
			"description": "The correct answer, which MUST be one of the provided options.",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "A clear, detailed explanation of the correct answer and why other options are incorrect.",
		},
	},
	"required": []any{"question", "type", "options", "correctAnswer", "explanation"},
}

// BatchSchema defines the response for a batch of multiple-choice
// questions.
var BatchSchema = &llm.Schema{
	Name:        "practice-question-batch",
	Description: "Several multiple-choice interview practice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": multipleChoiceItem,
			},
		},
		"required": []any{"questions"},
	},
}
