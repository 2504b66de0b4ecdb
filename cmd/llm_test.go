package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quizmint/internal/store"
)

func TestWriteEventList(t *testing.T) {
	var buf bytes.Buffer
	writeEventList(&buf, nil)
	assert.Equal(t, "No LLM calls recorded.\n", buf.String())

	buf.Reset()
	writeEventList(&buf, []store.LLMRequestEvent{
		{ID: 7, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Purpose: "question-gen", Model: "gemini-2.5-flash", InputTokens: 1000, OutputTokens: 1000, Success: true,
		}},
		{ID: 8, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Purpose: "question-gen", Model: "gemini-2.5-flash", Success: false,
		}},
	})
	out := buf.String()
	assert.Contains(t, out, "gemini-2.5-flash")
	assert.Contains(t, out, "$0.0028")
	assert.Contains(t, out, "failed")
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	writeEvent(&buf, &store.LLMRequestEvent{
		ID:        3,
		Timestamp: time.Now(),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock",
			Purpose:      "question-gen",
			ErrorMessage: "LLM provider unavailable",
			RequestBody:  "[topic: Go]\n\n[user]\nGenerate exactly 2\n",
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Call 3")
	assert.Contains(t, out, "provider  mock (mock)")
	assert.Contains(t, out, "error     LLM provider unavailable")
	assert.Contains(t, out, "[topic: Go]")
	assert.Contains(t, out, "(not captured)")
}

func TestWriteUsage(t *testing.T) {
	var buf bytes.Buffer
	writeUsage(&buf,
		[]store.PurposeUsage{{Purpose: "question-gen", Calls: 3, InputTokens: 300, OutputTokens: 900, AvgLatencyMs: 1200}},
		[]store.ModelUsage{
			{Model: "gpt-4o-mini", Calls: 2, InputTokens: 200, OutputTokens: 600},
			{Model: "homegrown-7b", Calls: 1, InputTokens: 100, OutputTokens: 300},
		},
	)
	out := buf.String()
	assert.Contains(t, out, "question-gen")
	assert.Contains(t, out, "total (priced models only)")
	assert.Contains(t, out, "No pricing for: homegrown-7b")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
