package quizgen

import "github.com/abhisek/quizmint/internal/llm"

// QuestionsSchema defines the JSON schema for structured question responses.
var QuestionsSchema = &llm.Schema{
	Name:        "mcq-questions",
	Description: "A list of multiple-choice questions with four options and a correct letter",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
							"description": "Exactly 4 answer options without letter prefixes",
						},
						"correct": map[string]any{
							"type":        "string",
							"enum":        []any{"a", "b", "c", "d"},
							"description": "Letter of the correct option",
						},
					},
					"required":             []any{"question", "options", "correct"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
