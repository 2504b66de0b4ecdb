package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/quizmint/internal/store"
)

// ErrNotConfigured is returned by NewProviderFromEnv when no provider
// settings or API keys are present in the environment.
var ErrNotConfigured = errors.New("no LLM provider configured: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY or QUIZMINT_LLM_PROVIDER")

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout, retry and logging middleware.
// A nil eventRepo disables request logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = &MockProvider{Respond: cfg.MockRespond}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → logging → base
	var p Provider = base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo)
	}
	p = WithRetry(p, cfg.Retry)
	p = WithTimeout(p, cfg.Timeout)

	return p, nil
}

// NewProviderFromEnv resolves configuration from the environment and builds
// a provider. QUIZMINT_LLM_PROVIDER selects an explicit configuration;
// otherwise the standard API key variables are probed.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg, ok := EnvironmentConfig()
	if !ok {
		return nil, ErrNotConfigured
	}
	return NewProvider(ctx, cfg, eventRepo)
}

// EnvironmentConfig resolves the provider configuration NewProviderFromEnv
// would use. QUIZMINT_LLM_PROVIDER selects an explicit configuration;
// otherwise a discovered key is used with the remaining QUIZMINT_
// overrides applied. It reports false when nothing is configured.
func EnvironmentConfig() (Config, bool) {
	if os.Getenv("QUIZMINT_LLM_PROVIDER") != "" {
		return ConfigFromEnv(), true
	}
	cfg, ok := DiscoverConfig()
	if !ok {
		return Config{}, false
	}
	applyEnv(&cfg, "QUIZMINT_LLM_PROVIDER")
	return cfg, true
}
