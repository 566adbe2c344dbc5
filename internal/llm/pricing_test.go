package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model     string
		wantInput float64
		wantNil   bool
	}{
		{model: "gpt-4o-mini", wantInput: 0.15},
		{model: "claude-haiku-4-5-20251001", wantInput: 1},
		{model: "claude-sonnet-4-5-20250929", wantInput: 3},
		{model: "gpt-4o-2024-08-06", wantInput: 2.5},
		{model: "anthropic/claude-haiku-4.5", wantInput: 1},
		{model: "google/gemini-2.0-flash-001", wantInput: 0.1},
		{model: "mock", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := LookupCost(tt.model)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected no price, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a price")
			}
			if got.InputPerMTok != tt.wantInput {
				t.Fatalf("input price = %v, want %v", got.InputPerMTok, tt.wantInput)
			}
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 3, OutputPerMTok: 15}
	got := c.Cost(1_000, 2_000)
	if math.Abs(got-0.033) > 1e-12 {
		t.Fatalf("Cost = %v, want 0.033", got)
	}
}
