package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds LLM provider configuration. Keys only ever come from the
// environment.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig

	Retry RetryConfig

	// RequestsPerMinute throttles outgoing requests. Zero disables the
	// limiter.
	RequestsPerMinute int

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig is the connection setting of one provider. Gemini ignores
// BaseURL.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults and no keys.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		RequestsPerMinute: 20,
		Timeout:           45 * time.Second,
	}
}

// envPrefix namespaces every variable read by ConfigFromEnv.
const envPrefix = "MATHPROBE_"

// ConfigFromEnv overlays MATHPROBE_* variables on the defaults:
// MATHPROBE_LLM_PROVIDER and, per provider, MATHPROBE_<P>_API_KEY,
// MATHPROBE_<P>_MODEL and MATHPROBE_<P>_BASE_URL.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv(envPrefix + "LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	for name, pc := range cfg.providers() {
		overlay(pc, envPrefix+name+"_")
	}
	return cfg
}

func overlay(pc *ProviderConfig, prefix string) {
	if v := os.Getenv(prefix + "API_KEY"); v != "" {
		pc.APIKey = v
	}
	if v := os.Getenv(prefix + "MODEL"); v != "" {
		pc.Model = v
	}
	if v := os.Getenv(prefix + "BASE_URL"); v != "" {
		pc.BaseURL = v
	}
}

// providers maps the upper-case env name of each provider to its config.
func (c *Config) providers() map[string]*ProviderConfig {
	return map[string]*ProviderConfig{
		"ANTHROPIC":  &c.Anthropic,
		"OPENAI":     &c.OpenAI,
		"GEMINI":     &c.Gemini,
		"OPENROUTER": &c.OpenRouter,
	}
}

// discoveryOrder is the order in which standard key variables are probed.
var discoveryOrder = []struct {
	provider string
	env      string
}{
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// DiscoverConfig probes the standard *_API_KEY variables and returns a
// Config for the first provider whose key is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, d := range discoveryOrder {
		k := os.Getenv(d.env)
		if k == "" {
			continue
		}
		cfg.Provider = d.provider
		cfg.selected().APIKey = k
		return cfg, true
	}
	return Config{}, false
}

// Resolve returns the MATHPROBE_* configuration when it is usable and
// otherwise falls back to key discovery.
func Resolve() (Config, bool) {
	if cfg := ConfigFromEnv(); cfg.Validate() == nil {
		return cfg, true
	}
	return DiscoverConfig()
}

func (c *Config) selected() *ProviderConfig {
	switch c.Provider {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// Validate checks that the selected provider has its API key set.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	pc := c.selected()
	if pc == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if pc.APIKey == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", envPrefix, strings.ToUpper(c.Provider), c.Provider)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute must be >= 0, got %d", c.RequestsPerMinute)
	}
	return nil
}
