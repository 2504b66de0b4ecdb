package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/quizmint/internal/quizgen"
)

// DefaultTimeLimit is the time allowed for one assessment.
const DefaultTimeLimit = 30 * time.Minute

var (
	// ErrNotStarted is returned when acting on a session that was never started.
	ErrNotStarted = errors.New("session not started")

	// ErrAlreadySubmitted is returned once a session has been submitted,
	// either explicitly or by the timer.
	ErrAlreadySubmitted = errors.New("session already submitted")

	// ErrIndexOutOfRange is returned for a question index outside the session.
	ErrIndexOutOfRange = errors.New("question index out of range")

	// ErrInvalidOption is returned when an answer is not one of the
	// question's options.
	ErrInvalidOption = errors.New("answer is not one of the question's options")
)

// Phase represents the lifecycle of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota // No questions loaded
	PhaseInProgress              // Answers are being collected
	PhaseSubmitted               // Scored; answers are frozen
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// TopicScore is the per-topic tally computed at submission.
type TopicScore struct {
	Topic   string `json:"topic"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// Session is the state of one timed assessment.
type Session struct {
	ID        string             `json:"id"`
	Questions []quizgen.Question `json:"questions"`

	// Answers is parallel to Questions. An empty string means unanswered.
	Answers []string `json:"answers"`

	StartTime time.Time     `json:"start_time"`
	TimeLimit time.Duration `json:"time_limit"`
	Phase     Phase         `json:"phase"`

	SubmittedAt   time.Time `json:"submitted_at,omitzero"`
	AutoSubmitted bool      `json:"auto_submitted"`

	// Score and TopicScores are set exactly once, on submission.
	Score       int          `json:"score"`
	TopicScores []TopicScore `json:"topic_scores,omitempty"`
}

// New starts a session over questions at now, with every answer unset.
func New(id string, questions []quizgen.Question, now time.Time) *Session {
	return &Session{
		ID:        id,
		Questions: questions,
		Answers:   make([]string, len(questions)),
		StartTime: now,
		TimeLimit: DefaultTimeLimit,
		Phase:     PhaseInProgress,
	}
}

// Remaining returns the time left at now, never negative. A submitted
// session has no time remaining.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.Phase != PhaseInProgress {
		return 0
	}
	left := s.TimeLimit - now.Sub(s.StartTime)
	if left < 0 {
		return 0
	}
	return left
}

// Tick evaluates the timer at now. When the time limit has elapsed the
// session is submitted automatically. It returns the remaining time.
func (s *Session) Tick(now time.Time) time.Duration {
	if s.Phase != PhaseInProgress {
		return 0
	}
	left := s.Remaining(now)
	if left <= 0 {
		s.finish(now, true)
	}
	return left
}

// Select records option as the answer to question i. An empty option
// clears the answer. The timer is evaluated first, so a selection after the
// deadline is rejected with ErrAlreadySubmitted.
func (s *Session) Select(now time.Time, i int, option string) error {
	if s.Phase == PhaseNotStarted {
		return ErrNotStarted
	}
	s.Tick(now)
	if s.Phase == PhaseSubmitted {
		return ErrAlreadySubmitted
	}
	if i < 0 || i >= len(s.Questions) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.Questions))
	}
	if option != "" && !s.Questions[i].HasOption(option) {
		return ErrInvalidOption
	}
	s.Answers[i] = option
	return nil
}

// SelectLetter records the option at letter for question i.
func (s *Session) SelectLetter(now time.Time, i int, letter quizgen.Letter) error {
	if i < 0 || i >= len(s.Questions) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.Questions))
	}
	if !letter.Valid() {
		return ErrInvalidOption
	}
	return s.Select(now, i, s.Questions[i].Options[letter.Index()])
}

// Submit scores the session before the deadline. If the deadline has
// already passed the session is auto-submitted instead and the call still
// succeeds.
func (s *Session) Submit(now time.Time) error {
	switch s.Phase {
	case PhaseNotStarted:
		return ErrNotStarted
	case PhaseSubmitted:
		return ErrAlreadySubmitted
	}
	if s.Tick(now) <= 0 {
		return nil
	}
	s.finish(now, false)
	return nil
}

// Answered returns how many questions have an answer.
func (s *Session) Answered() int {
	n := 0
	for _, a := range s.Answers {
		if a != "" {
			n++
		}
	}
	return n
}

// Submitted reports whether the session has been scored.
func (s *Session) Submitted() bool {
	return s.Phase == PhaseSubmitted
}

func (s *Session) finish(now time.Time, auto bool) {
	s.Score, s.TopicScores = Score(s.Questions, s.Answers)
	s.Phase = PhaseSubmitted
	s.SubmittedAt = now
	s.AutoSubmitted = auto
}

// Score counts correct answers overall and per topic. Topics appear in the
// order their first question appears. Unset answers never match.
func Score(questions []quizgen.Question, answers []string) (int, []TopicScore) {
	var (
		total  int
		scores []TopicScore
		index  = make(map[string]int)
	)
	for i, q := range questions {
		pos, ok := index[q.Topic]
		if !ok {
			pos = len(scores)
			index[q.Topic] = pos
			scores = append(scores, TopicScore{Topic: q.Topic})
		}
		scores[pos].Total++

		var answer string
		if i < len(answers) {
			answer = answers[i]
		}
		if q.IsCorrect(answer) {
			scores[pos].Correct++
			total++
		}
	}
	return total, scores
}
