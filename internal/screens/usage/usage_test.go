package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmint/internal/router"
	"github.com/abhisek/quizmint/internal/store"
)

type fakeRepo struct {
	events   []store.LLMRequestEvent
	purposes []store.PurposeUsage
	err      error
	limit    int
}

func (f *fakeRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error { return nil }
func (f *fakeRepo) QueryLLMEvents(_ context.Context, opts store.QueryOpts) ([]store.LLMRequestEvent, error) {
	f.limit = opts.Limit
	return f.events, f.err
}
func (f *fakeRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEvent, error) { return nil, nil }
func (f *fakeRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return f.purposes, f.err
}
func (f *fakeRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) { return nil, nil }

func loaded(repo *fakeRepo) *UsageScreen {
	s := New(repo)
	s.Update(s.Init()())
	return s
}

func call(id int, success bool, errMsg string) store.LLMRequestEvent {
	return store.LLMRequestEvent{ID: id, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen",
		InputTokens: 50, OutputTokens: 200, Success: success, ErrorMessage: errMsg,
		RequestBody: "[topic: Networking]\nGenerate exactly 10 multiple-choice questions",
	}}
}

func TestUsageScreen_Loaded(t *testing.T) {
	repo := &fakeRepo{
		purposes: []store.PurposeUsage{
			{Purpose: "question-gen", Calls: 3, InputTokens: 300, OutputTokens: 900, AvgLatencyMs: 900},
			{Purpose: "retry", Calls: 1, InputTokens: 100, OutputTokens: 100, AvgLatencyMs: 700},
		},
		events: []store.LLMRequestEvent{call(2, true, ""), call(1, false, "quota exceeded")},
	}
	s := loaded(repo)
	assert.Equal(t, recentLimit, repo.limit)

	view := s.View(140, 30)
	assert.Contains(t, view, "question-gen")
	assert.Contains(t, view, "86%", "question-gen holds 1200 of 1400 tokens")
	assert.Contains(t, view, "Recent calls (2)")
	assert.Contains(t, view, "failed")
	assert.NotContains(t, view, "quota exceeded", "details are hidden until toggled")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.cursor, "cursor stops at the last call")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(140, 30)
	assert.Contains(t, view, "quota exceeded")
	assert.Contains(t, view, "[topic: Networking]")
}

func TestUsageScreen_States(t *testing.T) {
	s := New(&fakeRepo{})
	assert.Contains(t, s.View(80, 24), "Loading")

	assert.Contains(t, loaded(&fakeRepo{}).View(80, 24), "No LLM calls recorded yet.")
	assert.Contains(t, loaded(&fakeRepo{err: errors.New("db locked")}).View(80, 24), "db locked")
}

func TestUsageScreen_EscPops(t *testing.T) {
	_, cmd := New(&fakeRepo{}).Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}
