package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. Text is shorthand for plain-text
// Content.
type MockResponse struct {
	Content    json.RawMessage
	Text       string
	Usage      Usage
	StopReason string
	Err        error
}

// MockProvider replays scripted replies in order and records every
// request. When the queue is empty it falls back to Respond, and fails
// with ErrProviderUnavailable if Respond is nil.
//
// Selecting the "mock" provider gives an offline provider whose Respond is
// filled in by the caller.
type MockProvider struct {
	// Respond answers requests once the queue is drained.
	Respond func(Request) MockResponse

	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.Respond != nil:
		respond := m.Respond
		m.mu.Unlock()
		return respond(req).response()
	default:
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	m.mu.Unlock()

	return next.response()
}

func (r MockResponse) response() (*Response, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	content := r.Content
	if content == nil && r.Text != "" {
		content = textContent(r.Text)
	}
	stop := r.StopReason
	if stop == "" {
		stop = StopEnd
	}
	return &Response{Content: content, Usage: r.Usage, Model: "mock", StopReason: stop}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse queues another scripted reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastRequest returns the most recent request, or false if none was made.
func (m *MockProvider) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
