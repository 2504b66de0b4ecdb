package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider is a text-generation backend. Implementations translate a
// Request into one SDK call and normalise the answer; retries, timeouts
// and request logging are layered on with the With* decorators.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is one generation call. Question generation sends a single user
// message; Messages stays a slice so a caller can replay earlier turns.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema document. Name doubles as the OpenAI
// response-format name and the cache key for the compiled validator.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a normalised provider answer. Content is always valid JSON:
// the validated object for schema requests, otherwise the reply text
// encoded as a JSON string.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // model that actually served the call
	StopReason string // one of the Stop* constants
}

const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopFiltered  = "filtered"
)

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the response content as plain text. Content that is a JSON
// string literal is unquoted; anything else is returned verbatim.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if len(r.Content) > 0 && r.Content[0] == '"' {
		if err := json.Unmarshal(r.Content, &s); err == nil {
			return s
		}
	}
	return string(r.Content)
}

// buildResponse turns the raw output of a provider call into a Response.
//
// Plain-text replies are kept even when cut off at the token limit: the
// question parser drops the trailing partial block and keeps the rest. A
// structured reply is all or nothing, so truncation there is an error and
// the JSON must validate against the request schema.
func buildResponse(req Request, raw string, usage Usage, model, stop string) (*Response, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("empty response (stop reason %q)", stop)}
	}

	resp := &Response{Usage: usage, Model: model, StopReason: stop}
	if req.Schema == nil {
		resp.Content = textContent(raw)
		return resp, nil
	}

	content := normalizeJSON(raw)
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	resp.Content = content
	return resp, nil
}

// textContent encodes plain model output as a JSON string so Content is
// always valid JSON. Text reverses it.
func textContent(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
