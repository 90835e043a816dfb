package llm

import (
	"errors"
	"testing"
)

var questionSchema = &Schema{
	Name: "test-questions",
	Definition: map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type":     "object",
			"required": []any{"question", "options"},
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"minItems": 3,
					"items":    map[string]any{"type": "string"},
				},
			},
		},
	},
}

func TestValidateJSON_Valid(t *testing.T) {
	raw := `[{"question":"Why?","options":["a","b","c"]}]`
	if err := ValidateJSON(questionSchema, raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateJSON_SchemaViolation(t *testing.T) {
	raw := `[{"question":"Why?","options":["a"]}]`
	err := ValidateJSON(questionSchema, raw)
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got: %T (%v)", err, err)
	}
}

func TestValidateJSON_InvalidJSON(t *testing.T) {
	err := ValidateJSON(questionSchema, `[{"question":`)
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got: %T (%v)", err, err)
	}
}

func TestValidateJSON_CachedCompile(t *testing.T) {
	raw := `[{"question":"Q","options":["a","b","c"]}]`
	for i := 0; i < 3; i++ {
		if err := ValidateJSON(questionSchema, raw); err != nil {
			t.Fatalf("round %d: unexpected error: %v", i, err)
		}
	}
	if _, ok := schemaCache.Load(questionSchema.Name); !ok {
		t.Fatal("expected compiled schema to be cached")
	}
}
