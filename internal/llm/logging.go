package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/quizmint/internal/store"
)

// maxLoggedBody caps each stored request and response body.
const maxLoggedBody = 64 << 10

// EventSink receives one record per provider call. store.EventRepo
// satisfies it.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every call made through it, successful or not.
type LoggingProvider struct {
	inner    Provider
	provider string
	sink     EventSink
}

// WithLogging wraps p so that each call is appended to sink. provider is
// the configured provider name ("gemini", "openai", ...).
func WithLogging(p Provider, provider string, sink EventSink) Provider {
	return &LoggingProvider{inner: p, provider: provider, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: clip(formatRequest(ctx, req)),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = clip(resp.Text())
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// The request already happened; a failed write only costs the record.
	// Use a context that survives the caller's cancellation.
	if logErr := l.sink.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request event: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// formatRequest renders a request as labelled sections for the usage
// screens.
func formatRequest(ctx context.Context, req Request) string {
	var b strings.Builder

	if topic := TopicFrom(ctx); topic != "" {
		fmt.Fprintf(&b, "[topic: %s]\n\n", topic)
	}
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}

func clip(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "\n[truncated]"
}
