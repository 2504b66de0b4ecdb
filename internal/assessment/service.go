package assessment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/session"
	"github.com/abhisek/quizmint/internal/topics"
)

var (
	// ErrEmptyContent is returned when the study material is blank.
	ErrEmptyContent = errors.New("content is empty")

	// ErrNoQuestions is returned when generation produced nothing usable.
	ErrNoQuestions = errors.New("no questions generated")
)

// SuccessMessage is shown after a session has been created.
const SuccessMessage = "Assessment generated successfully!"

// UserMessage returns the text shown to the learner for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return SuccessMessage
	case errors.Is(err, ErrEmptyContent):
		return "Content cannot be empty."
	case errors.Is(err, ErrNoQuestions):
		return "Failed to generate questions. Please check the input content."
	case errors.Is(err, context.Canceled):
		return "Generation cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "Generation timed out. Try fewer topics or retry later."
	default:
		return "Error: " + err.Error()
	}
}

// Result is the outcome of one "Generate Assessment" action.
type Result struct {
	Topics  []topics.Topic
	Batch   *quizgen.Batch
	Session *session.Session
}

// Warnings returns the generation warnings, if any.
func (r *Result) Warnings() []quizgen.Warning {
	if r == nil || r.Batch == nil {
		return nil
	}
	return r.Batch.Warnings
}

// Service turns raw study material into a new timed session.
type Service struct {
	generator quizgen.Generator
	newID     func() string
	now       func() time.Time
}

// NewService creates a Service backed by generator.
func NewService(generator quizgen.Generator) *Service {
	return &Service{
		generator: generator,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Generate parses content into topics, generates questions and starts a
// fresh session. Blank content fails with ErrEmptyContent before any
// generation. When no question could be generated, or ctx ended before
// generation finished, the returned Result still carries the batch
// warnings alongside the error and no session is started.
func (s *Service) Generate(ctx context.Context, content string) (*Result, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	ts := topics.Parse(content)
	batch := s.generator.Generate(ctx, ts)

	res := &Result{Topics: ts, Batch: batch}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if len(batch.Questions) == 0 {
		return res, ErrNoQuestions
	}

	res.Session = session.New(s.newID(), batch.Questions, s.now())
	return res, nil
}
