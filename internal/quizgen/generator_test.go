package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmint/internal/llm"
	"github.com/abhisek/quizmint/internal/topics"
)

// blocks renders n well-formed question blocks.
func blocks(prefix string, n int) json.RawMessage {
	var parts []string
	for i := range n {
		parts = append(parts, fmt.Sprintf("%d. %s question %d?\na) w\nb) x\nc) y\nd) z\nCorrect: b", i+1, prefix, i+1))
	}
	return json.RawMessage(strings.Join(parts, "\n\n"))
}

func testConfig(total int) Config {
	cfg := DefaultConfig()
	cfg.TotalQuestions = total
	cfg.CallTimeout = 0
	return cfg
}

func TestGenerate_ZeroTopics(t *testing.T) {
	mock := llm.NewMockProvider()
	gen := New(mock, DefaultConfig())

	batch := gen.Generate(context.Background(), nil)
	require.NotNil(t, batch)
	assert.Empty(t, batch.Questions)
	assert.Empty(t, batch.Warnings)
	assert.Zero(t, mock.CallCount())
}

func TestGenerate_FirstRoundSatisfiesTarget(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: blocks("math", 3)},
		llm.MockResponse{Content: blocks("physics", 3)},
	)
	gen := New(mock, testConfig(6))

	ts := []topics.Topic{{ID: "Math", Details: "Algebra basics"}, {ID: "Physics", Details: "Newton's laws"}}
	batch := gen.Generate(context.Background(), ts)

	require.Len(t, batch.Questions, 6)
	assert.Empty(t, batch.Warnings)
	assert.Equal(t, 2, mock.CallCount())

	for i, q := range batch.Questions {
		want := "Math"
		if i >= 3 {
			want = "Physics"
		}
		assert.Equal(t, want, q.Topic, "question %d", i)
	}
	assert.Len(t, batch.QuestionsFor("Math"), 3)
	assert.Len(t, batch.QuestionsFor("Physics"), 3)
	assert.Nil(t, batch.QuestionsFor("Chemistry"))

	// Requests carry the topic and the remaining count.
	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Generate exactly 3 ")
	assert.Contains(t, msg, "Topic: Math")
	assert.Contains(t, msg, "Algebra basics")
	assert.Equal(t, systemPrompt, mock.Calls[0].System)
	assert.Nil(t, mock.Calls[0].Schema)
}

func TestGenerate_RetriesForRemainingOnly(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: blocks("a", 2)},
		llm.MockResponse{Content: blocks("b", 5)}, // over-delivers
	)
	gen := New(mock, testConfig(5))

	batch := gen.Generate(context.Background(), []topics.Topic{{ID: "Only"}})

	assert.Len(t, batch.Questions, 5, "never more than the target")
	assert.Empty(t, batch.Warnings)
	require.Equal(t, 2, mock.CallCount())
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Generate exactly 5 ")
	assert.Contains(t, mock.Calls[1].Messages[0].Content, "Generate exactly 3 ")
}

func TestGenerate_FailuresBecomeWarnings(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockResponse{Content: blocks("x", 1)},
		llm.MockResponse{Content: json.RawMessage("garbage with no blocks")},
	)
	gen := New(mock, testConfig(3))

	batch := gen.Generate(context.Background(), []topics.Topic{{ID: "Networking"}})

	assert.Len(t, batch.Questions, 1)
	assert.Equal(t, 3, mock.CallCount(), "bounded to MaxRounds")
	require.Len(t, batch.Warnings, 2)

	failed := batch.Warnings[0]
	assert.Equal(t, WarningGenerationFailed, failed.Kind)
	assert.Equal(t, 1, failed.Round)
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, failed.Err, &unavail)
	assert.Contains(t, failed.Message(), "Error generating questions for topic Networking (round 1)")

	short := batch.Warnings[1]
	assert.Equal(t, WarningInsufficient, short.Kind)
	assert.Equal(t, "Could not generate enough questions for topic: Networking (Generated 1/3)", short.Message())
}

func TestGenerate_DropsStructurallyInvalidQuestions(t *testing.T) {
	dup := "1. Which is prime?\na) 2\nb) 2\nc) 4\nd) 6\nCorrect: a"
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(dup + "\n\n" + string(blocks("ok", 1))),
	})
	cfg := testConfig(2)
	cfg.MaxRounds = 1
	batch := New(mock, cfg).Generate(context.Background(), []topics.Topic{{ID: "Math"}})

	require.Len(t, batch.Questions, 1)
	assert.Equal(t, "1. ok question 1?", batch.Questions[0].Text)
}

func TestGenerate_TargetFloorIsOne(t *testing.T) {
	var responses []llm.MockResponse
	for range 40 {
		responses = append(responses, llm.MockResponse{Content: blocks("q", 4)})
	}
	mock := llm.NewMockProvider(responses...)
	gen := New(mock, DefaultConfig())

	ts := make([]topics.Topic, 40)
	for i := range ts {
		ts[i] = topics.Topic{ID: fmt.Sprintf("T%02d", i)}
	}
	batch := gen.Generate(context.Background(), ts)

	assert.Len(t, batch.Questions, 40)
	assert.Equal(t, 40, mock.CallCount())
	for _, tq := range batch.ByTopic {
		assert.Equal(t, 1, tq.Target)
		assert.Len(t, tq.Questions, 1)
	}
}

func TestGenerate_JSONFormat(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions":[{"question":"Q1?","options":["1","2","3","4"],"correct":"c"}]}`),
	})
	cfg := testConfig(1)
	cfg.Format = FormatJSON
	gen := New(mock, cfg)

	batch := gen.Generate(context.Background(), []topics.Topic{{ID: "T"}})

	require.Len(t, batch.Questions, 1)
	assert.Equal(t, LetterC, batch.Questions[0].Correct)
	assert.Equal(t, "T", batch.Questions[0].Topic)
	assert.Same(t, QuestionsSchema, mock.Calls[0].Schema)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, `"questions" array`)
}

func TestGenerate_CancelledContextStops(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: blocks("q", 15)})
	gen := New(mock, testConfig(30))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	batch := gen.Generate(ctx, []topics.Topic{{ID: "A"}, {ID: "B"}})

	assert.Zero(t, mock.CallCount())
	assert.Empty(t, batch.Questions)
	require.Len(t, batch.ByTopic, 2)
	require.Len(t, batch.Warnings, 2)
	for i, w := range batch.Warnings {
		assert.Equal(t, WarningInsufficient, w.Kind)
		assert.Equal(t, batch.ByTopic[i].Topic, w.Topic)
		assert.Zero(t, w.Generated)
	}
}

func TestGenerate_CancelledMidwayWarnsForSkippedTopics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &cancellingProvider{cancel: cancel}
	gen := New(p, testConfig(2))

	ts := []topics.Topic{{ID: "Math", Details: "Algebra"}, {ID: "Physics", Details: "Forces"}}
	batch := gen.Generate(ctx, ts)

	assert.Equal(t, 1, p.calls, "no call after cancellation")
	assert.Len(t, batch.Questions, 1)
	require.Len(t, batch.ByTopic, 2)
	assert.Len(t, batch.QuestionsFor("Math"), 1)
	assert.Empty(t, batch.QuestionsFor("Physics"))

	require.Len(t, batch.Warnings, 1)
	w := batch.Warnings[0]
	assert.Equal(t, WarningInsufficient, w.Kind)
	assert.Equal(t, "Physics", w.Topic)
	assert.Equal(t, 0, w.Generated)
	assert.Equal(t, 1, w.Target)
}

// cancellingProvider answers one question and cancels the caller's context.
type cancellingProvider struct {
	cancel context.CancelFunc
	calls  int
}

func (p *cancellingProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	p.calls++
	p.cancel()
	return &llm.Response{Content: blocks("q", 1)}, nil
}

func (*cancellingProvider) ModelID() string { return "cancelling" }

func TestGenerate_LabelsCalls(t *testing.T) {
	var purpose, topic string
	p := purposeProvider{fn: func(ctx context.Context) {
		purpose, topic = llm.PurposeFrom(ctx), llm.TopicFrom(ctx)
	}}
	New(p, testConfig(1)).Generate(context.Background(), []topics.Topic{{ID: "T"}})
	assert.Equal(t, "question-gen", purpose)
	assert.Equal(t, "T", topic)
}

type purposeProvider struct {
	fn func(ctx context.Context)
}

func (p purposeProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.fn(ctx)
	return &llm.Response{Content: blocks("q", 1)}, nil
}

func (purposeProvider) ModelID() string { return "purpose" }

func TestTargetPerTopic(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0, cfg.TargetPerTopic(0))
	assert.Equal(t, 30, cfg.TargetPerTopic(1))
	assert.Equal(t, 15, cfg.TargetPerTopic(2))
	assert.Equal(t, 10, cfg.TargetPerTopic(3))
	assert.Equal(t, 7, cfg.TargetPerTopic(4))
	assert.Equal(t, 1, cfg.TargetPerTopic(31))
}
