package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func narrativeTestSchema() *Schema {
	return &Schema{
		Name:        "test-narrative",
		Description: "A short learner-facing summary",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headline": map[string]any{"type": "string"},
				"summary":  map[string]any{"type": "string"},
				"next_steps": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"maxItems": 3,
				},
				"tone": map[string]any{"type": "string", "enum": []any{"encouraging", "neutral"}},
			},
			"required":             []any{"headline", "summary", "next_steps"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"headline":"h","summary":"s","next_steps":["a","b"],"tone":"neutral"}`, false},
		{"valid without optional", `{"headline":"h","summary":"s","next_steps":[]}`, false},
		{"missing required", `{"headline":"h","summary":"s"}`, true},
		{"wrong type", `{"headline":"h","summary":"s","next_steps":"do more"}`, true},
		{"too many steps", `{"headline":"h","summary":"s","next_steps":["a","b","c","d"]}`, true},
		{"invalid enum", `{"headline":"h","summary":"s","next_steps":[],"tone":"harsh"}`, true},
		{"unknown field", `{"headline":"h","summary":"s","next_steps":[],"extra":1}`, true},
		{"malformed JSON", `{not json}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(narrativeTestSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
			if string(invErr.Content) != tt.raw {
				t.Fatalf("expected offending content to be kept, got %s", invErr.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchemaAcceptsAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}
