package service

import "skillpath_backend/internal/llm"

// clarifyingQuestionsSchema 澄清问题：恰好 3 题，每题 3-5 个选项
var clarifyingQuestionsSchema = &llm.Schema{
	Name: "clarifying-questions",
	Definition: map[string]any{
		"type":     "array",
		"minItems": 3,
		"maxItems": 3,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"options": map[string]any{
					"type":     "array",
					"minItems": 3,
					"maxItems": 5,
					"items":    map[string]any{"type": "string", "minLength": 1},
				},
			},
			"required":             []any{"question", "options"},
			"additionalProperties": false,
		},
	},
}

// roadmapSchema 路线图：4-12 周，每周 1-5 个主题
var roadmapSchema = &llm.Schema{
	Name: "roadmap",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"summary": map[string]any{
				"type": "string",
			},
			"weeks": map[string]any{
				"type":     "array",
				"minItems": 4,
				"maxItems": 12,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"week": map[string]any{
							"type":    "integer",
							"minimum": 1,
						},
						"theme": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
						"topics": map[string]any{
							"type":     "array",
							"minItems": 1,
							"maxItems": 5,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"title": map[string]any{
										"type":      "string",
										"minLength": 1,
									},
									"objective": map[string]any{
										"type": "string",
									},
									"estimated_minutes": map[string]any{
										"type":    "integer",
										"minimum": 1,
									},
								},
								"required":             []any{"title", "objective", "estimated_minutes"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"week", "theme", "topics"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "summary", "weeks"},
		"additionalProperties": false,
	},
}

// lessonContentSchema 课程内容：3-6 小节，3-5 道四选一测验题
var lessonContentSchema = &llm.Schema{
	Name: "lesson-content",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sections": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 6,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"heading": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
						"body": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
					},
					"required":             []any{"heading", "body"},
					"additionalProperties": false,
				},
			},
			"key_takeaways": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
			"quiz": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 5,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
						"options": map[string]any{
							"type":     "array",
							"minItems": 4,
							"maxItems": 4,
							"items":    map[string]any{"type": "string", "minLength": 1},
						},
						"correct_index": map[string]any{
							"type":    "integer",
							"minimum": 0,
							"maximum": 3,
						},
						"explanation": map[string]any{
							"type": "string",
						},
					},
					"required":             []any{"question", "options", "correct_index", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"sections", "key_takeaways", "quiz"},
		"additionalProperties": false,
	},
}
