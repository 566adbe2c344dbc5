// Package narrative turns diagnostic reports into short parent-facing
// prose using an LLM provider.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/mathprobe/internal/llm"
	"github.com/abhisek/mathprobe/internal/report"
)

// ErrNoProvider is returned by a Narrator built without a provider.
var ErrNoProvider = errors.New("narrative: no LLM provider configured")

// Config holds narration settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// MaxNextSteps caps the suggestions requested from the model.
	MaxNextSteps int
}

// DefaultConfig returns sensible defaults for narration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    600,
		Temperature:  0.4,
		MaxNextSteps: 3,
	}
}

// Narrative is the model's summary of one diagnostic report.
type Narrative struct {
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	NextSteps   []string  `json:"next_steps"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Narrator writes narratives for diagnostic results.
type Narrator struct {
	provider llm.Provider
	cfg      Config
	now      func() time.Time
}

// New creates a Narrator. A nil provider yields a Narrator whose Narrate
// always returns ErrNoProvider.
func New(provider llm.Provider, cfg Config) *Narrator {
	if cfg.MaxNextSteps <= 0 {
		cfg.MaxNextSteps = DefaultConfig().MaxNextSteps
	}
	return &Narrator{provider: provider, cfg: cfg, now: time.Now}
}

type narrativeOutput struct {
	Headline  string   `json:"headline"`
	Summary   string   `json:"summary"`
	NextSteps []string `json:"next_steps"`
}

// Narrate asks the provider for a summary of result.
func (n *Narrator) Narrate(ctx context.Context, result report.DiagnosticResult) (*Narrative, error) {
	if n.provider == nil {
		return nil, ErrNoProvider
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeNarrative)

	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(result, n.cfg.MaxNextSteps)}},
		Schema:      Schema(n.cfg.MaxNextSteps),
		MaxTokens:   n.cfg.MaxTokens,
		Temperature: n.cfg.Temperature,
	}

	resp, err := n.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("narrate report: %w", err)
	}

	var out narrativeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse narrative response: %w", err)
	}

	return &Narrative{
		Headline:    out.Headline,
		Summary:     out.Summary,
		NextSteps:   out.NextSteps,
		Model:       resp.Model,
		GeneratedAt: n.now().UTC(),
	}, nil
}
