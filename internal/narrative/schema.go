package narrative

import (
	"strconv"

	"github.com/abhisek/mathprobe/internal/llm"
)

// Schema returns the JSON schema for a narrative with at most maxSteps
// next steps. The name includes the cap so compiled schemas are cached
// per variant.
func Schema(maxSteps int) *llm.Schema {
	return &llm.Schema{
		Name:        "report-narrative-" + strconv.Itoa(maxSteps),
		Description: "Parent-friendly summary of an arithmetic diagnostic report",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headline": map[string]any{
					"type":        "string",
					"description": "One sentence overall takeaway (under 15 words)",
				},
				"summary": map[string]any{
					"type":        "string",
					"description": "3-5 plain sentences on strengths, weak skills and error patterns",
				},
				"next_steps": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"minItems":    1,
					"maxItems":    maxSteps,
					"description": "Concrete practice suggestions, most important first",
				},
			},
			"required":             []any{"headline", "summary", "next_steps"},
			"additionalProperties": false,
		},
	}
}
