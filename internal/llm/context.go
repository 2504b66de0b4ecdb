package llm

import "context"

type callLabelKey struct{}

// callLabel tags provider calls for the request log.
type callLabel struct {
	purpose string
	topic   string
}

// WithPurpose labels every call made with ctx, e.g. "question-gen".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	l := labelFrom(ctx)
	l.purpose = purpose
	return context.WithValue(ctx, callLabelKey{}, l)
}

// WithTopic records which topic a call generates questions for.
func WithTopic(ctx context.Context, topic string) context.Context {
	l := labelFrom(ctx)
	l.topic = topic
	return context.WithValue(ctx, callLabelKey{}, l)
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if l := labelFrom(ctx); l.purpose != "" {
		return l.purpose
	}
	return "unknown"
}

// TopicFrom returns the topic label, or "".
func TopicFrom(ctx context.Context) string {
	return labelFrom(ctx).topic
}

func labelFrom(ctx context.Context) callLabel {
	l, _ := ctx.Value(callLabelKey{}).(callLabel)
	return l
}
