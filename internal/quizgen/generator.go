package quizgen

import (
	"context"
	"fmt"

	"github.com/abhisek/quizmint/internal/llm"
	"github.com/abhisek/quizmint/internal/topics"
)

// Generator produces multiple-choice questions for a set of topics.
type Generator interface {
	// Generate runs the bounded-retry generation loop over every topic.
	// It never fails: problems are reported as warnings on the batch and
	// by returning fewer questions than requested. Every topic appears in
	// ByTopic, including those skipped once ctx is done.
	Generate(ctx context.Context, ts []topics.Topic) *Batch
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

var _ Generator = (*LLMGenerator)(nil)

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate produces up to the per-topic target for each topic, in topic order.
func (g *LLMGenerator) Generate(ctx context.Context, ts []topics.Topic) *Batch {
	ctx = llm.WithPurpose(ctx, "question-gen")

	batch := &Batch{}
	target := g.config.TargetPerTopic(len(ts))

	for _, t := range ts {
		var collected []Question
		for round := 1; round <= g.config.MaxRounds && ctx.Err() == nil; round++ {
			remaining := target - len(collected)
			if remaining <= 0 {
				break
			}

			fresh, err := g.generateRound(ctx, t, remaining)
			if err != nil {
				batch.Warnings = append(batch.Warnings, Warning{
					Kind:  WarningGenerationFailed,
					Topic: t.ID,
					Round: round,
					Err:   err,
				})
				continue
			}

			if len(fresh) > remaining {
				fresh = fresh[:remaining]
			}
			collected = append(collected, fresh...)
		}

		batch.ByTopic = append(batch.ByTopic, TopicQuestions{
			Topic:     t.ID,
			Target:    target,
			Questions: collected,
		})
		batch.Questions = append(batch.Questions, collected...)

		if len(collected) < target {
			batch.Warnings = append(batch.Warnings, Warning{
				Kind:      WarningInsufficient,
				Topic:     t.ID,
				Generated: len(collected),
				Target:    target,
			})
		}
	}

	return batch
}

// generateRound asks the provider for n questions on topic t and returns
// the ones that parse and validate, stamped with the topic id.
func (g *LLMGenerator) generateRound(ctx context.Context, t topics.Topic, n int) ([]Question, error) {
	ctx = llm.WithTopic(ctx, t.ID)
	if g.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.CallTimeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(t.ID, t.Details, n, g.config.Format)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.Format == FormatJSON {
		req.Schema = QuestionsSchema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var parsed []Question
	if g.config.Format == FormatJSON {
		parsed, err = ParseJSONResponse(resp.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse LLM response: %w", err)
		}
	} else {
		parsed = ParseResponse(resp.Text())
	}

	out := make([]Question, 0, len(parsed))
	for _, q := range parsed {
		q.Topic = t.ID
		if verr := validate(&q, g.config.Validators); verr != nil {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}
