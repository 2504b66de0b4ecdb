package llm

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config selects a provider and carries the settings of every provider
// plus the shared decorator settings.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter" or
	// "mock".
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig

	Retry RetryConfig

	// Timeout bounds one Generate call including its retries.
	Timeout time.Duration

	// MockRespond answers requests for the "mock" provider.
	MockRespond func(Request) MockResponse
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL points the client at an OpenAI-compatible endpoint.
	BaseURL string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string // full vendor/model slug
	BaseURL string
}

// RetryConfig shapes the backoff of WithRetry. Attempt n (from 0) waits
// InitialWait*Multiplier^n, capped at MaxWait, with ±20% jitter.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// envSetting binds one QUIZMINT_ variable to a Config field. Values that
// do not parse are ignored and the default stays.
type envSetting struct {
	name  string
	apply func(*Config, string)
}

func durationSetting(dst func(*Config) *time.Duration) func(*Config, string) {
	return func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			*dst(c) = d
		}
	}
}

var envSettings = []envSetting{
	{"QUIZMINT_LLM_PROVIDER", func(c *Config, v string) { c.Provider = v }},

	{"QUIZMINT_GEMINI_API_KEY", func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"QUIZMINT_GEMINI_MODEL", func(c *Config, v string) { c.Gemini.Model = v }},

	{"QUIZMINT_OPENAI_API_KEY", func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"QUIZMINT_OPENAI_MODEL", func(c *Config, v string) { c.OpenAI.Model = v }},
	{"QUIZMINT_OPENAI_BASE_URL", func(c *Config, v string) { c.OpenAI.BaseURL = v }},

	{"QUIZMINT_ANTHROPIC_API_KEY", func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"QUIZMINT_ANTHROPIC_MODEL", func(c *Config, v string) { c.Anthropic.Model = v }},

	{"QUIZMINT_OPENROUTER_API_KEY", func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"QUIZMINT_OPENROUTER_MODEL", func(c *Config, v string) { c.OpenRouter.Model = v }},

	{"QUIZMINT_LLM_TIMEOUT", durationSetting(func(c *Config) *time.Duration { return &c.Timeout })},
	{"QUIZMINT_LLM_RETRY_WAIT", durationSetting(func(c *Config) *time.Duration { return &c.Retry.InitialWait })},
	{"QUIZMINT_LLM_ATTEMPTS", func(c *Config, v string) {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retry.MaxAttempts = n
		}
	}},
}

// applyEnv overlays every set QUIZMINT_ variable except those in skip.
func applyEnv(cfg *Config, skip ...string) {
	for _, s := range envSettings {
		v := os.Getenv(s.name)
		if v == "" || slices.Contains(skip, s.name) {
			continue
		}
		s.apply(cfg, v)
	}
}

// ConfigFromEnv returns DefaultConfig overlaid with the QUIZMINT_ variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	applyEnv(&cfg)
	return cfg
}

// keyVar is a conventional API key variable and the provider it selects.
type keyVar struct {
	name     string
	provider string
}

// Probe order. Gemini comes first, matching DefaultConfig.
var discoveryOrder = []keyVar{
	{"GEMINI_API_KEY", "gemini"},
	{"GOOGLE_API_KEY", "gemini"},
	{"OPENAI_API_KEY", "openai"},
	{"ANTHROPIC_API_KEY", "anthropic"},
	{"OPENROUTER_API_KEY", "openrouter"},
}

// DiscoverConfig picks the first provider whose conventional API key
// variable is set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	for _, kv := range discoveryOrder {
		key := os.Getenv(kv.name)
		if key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = kv.provider
		*cfg.apiKey() = key
		return cfg, true
	}
	return Config{}, false
}

// apiKey points at the key field of the selected provider, or nil for
// providers that take none.
func (c *Config) apiKey() *string {
	switch c.Provider {
	case "gemini":
		return &c.Gemini.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// Validate reports an unknown provider or a missing API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	key := c.apiKey()
	if key == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *key == "" {
		return fmt.Errorf("the %s provider needs an API key: set QUIZMINT_%s_API_KEY", c.Provider, strings.ToUpper(c.Provider))
	}
	return nil
}
