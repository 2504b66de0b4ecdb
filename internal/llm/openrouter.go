package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter uses these to attribute traffic on its dashboard.
const (
	openRouterReferer = "https://github.com/abhisek/quizmint"
	openRouterTitle   = "Quizmint"
)

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Model
// names are OpenRouter slugs such as "google/gemini-2.5-flash" and are
// never aliased.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	client := &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}
	inner, err := newOpenAICompatible(OpenAIConfig{APIKey: cfg.APIKey, BaseURL: baseURL}, client)
	if err != nil {
		return nil, err
	}
	inner.model = cfg.Model

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// attributionTransport adds the OpenRouter app headers to every request.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", openRouterReferer)
	r.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(r)
}
