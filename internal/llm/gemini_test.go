package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(narrativeTestSchema().Definition)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["headline"].Type != genai.TypeString {
		t.Fatalf("expected STRING for headline, got %s", schema.Properties["headline"].Type)
	}
	steps := schema.Properties["next_steps"]
	if steps.Type != genai.TypeArray || steps.Items == nil || steps.Items.Type != genai.TypeString {
		t.Fatalf("next_steps = %+v", steps)
	}
	if len(schema.Properties["tone"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(schema.Properties["tone"].Enum))
	}
	if len(schema.Required) != 3 {
		t.Fatalf("expected 3 required fields, got %d", len(schema.Required))
	}
}

func TestMapGeminiType(t *testing.T) {
	tests := map[string]genai.Type{
		"string":  genai.TypeString,
		"integer": genai.TypeInteger,
		"number":  genai.TypeNumber,
		"boolean": genai.TypeBoolean,
		"array":   genai.TypeArray,
		"object":  genai.TypeObject,
	}
	for in, want := range tests {
		if got := mapGeminiType(in); got != want {
			t.Errorf("mapGeminiType(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), ProviderConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
