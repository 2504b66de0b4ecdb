package session

import (
	"fmt"
	"time"
)

// Feedback grades a topic's accuracy.
type Feedback int

const (
	FeedbackWeak     Feedback = iota // accuracy <= 25%
	FeedbackModerate                 // between the two thresholds
	FeedbackStrong                   // accuracy >= 85%
)

// Accuracy thresholds, in percent.
const (
	StrongThreshold = 85.0
	WeakThreshold   = 25.0
)

func (f Feedback) String() string {
	switch f {
	case FeedbackStrong:
		return "strong"
	case FeedbackWeak:
		return "weak"
	default:
		return "moderate"
	}
}

// FeedbackFor maps an accuracy percentage to a feedback level.
func FeedbackFor(accuracy float64) Feedback {
	switch {
	case accuracy >= StrongThreshold:
		return FeedbackStrong
	case accuracy <= WeakThreshold:
		return FeedbackWeak
	default:
		return FeedbackModerate
	}
}

// Accuracy returns correct/total as a percentage, 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// TopicResult is one topic's line on the results screen.
type TopicResult struct {
	Topic    string   `json:"topic"`
	Correct  int      `json:"correct"`
	Total    int      `json:"total"`
	Accuracy float64  `json:"accuracy"`
	Feedback Feedback `json:"-"`
	Level    string   `json:"feedback"`
}

// Message renders the feedback sentence for the topic.
func (r TopicResult) Message() string {
	switch r.Feedback {
	case FeedbackStrong:
		return fmt.Sprintf("You performed well in the topic: %s (%.2f%% accuracy)", r.Topic, r.Accuracy)
	case FeedbackWeak:
		return fmt.Sprintf("You need to improve in the topic: %s (%.2f%% accuracy)", r.Topic, r.Accuracy)
	default:
		return fmt.Sprintf("You performed moderately in the topic: %s (%.2f%% accuracy)", r.Topic, r.Accuracy)
	}
}

// Summary holds the data displayed once a session is submitted.
type Summary struct {
	Score         int           `json:"score"`
	Total         int           `json:"total"`
	Answered      int           `json:"answered"`
	AutoSubmitted bool          `json:"auto_submitted"`
	Duration      time.Duration `json:"duration"`
	Topics        []TopicResult `json:"topics"`
}

// ScoreLine renders the headline score.
func (s *Summary) ScoreLine() string {
	return fmt.Sprintf("Your final score is: %d/%d", s.Score, s.Total)
}

// BuildSummary packages a submitted session's results. It returns nil for a
// session that has not been submitted.
func BuildSummary(s *Session) *Summary {
	if s == nil || s.Phase != PhaseSubmitted {
		return nil
	}

	topics := make([]TopicResult, 0, len(s.TopicScores))
	for _, ts := range s.TopicScores {
		acc := Accuracy(ts.Correct, ts.Total)
		fb := FeedbackFor(acc)
		topics = append(topics, TopicResult{
			Topic:    ts.Topic,
			Correct:  ts.Correct,
			Total:    ts.Total,
			Accuracy: acc,
			Feedback: fb,
			Level:    fb.String(),
		})
	}

	duration := s.SubmittedAt.Sub(s.StartTime)
	if duration > s.TimeLimit {
		duration = s.TimeLimit
	}

	return &Summary{
		Score:         s.Score,
		Total:         len(s.Questions),
		Answered:      s.Answered(),
		AutoSubmitted: s.AutoSubmitted,
		Duration:      duration,
		Topics:        topics,
	}
}
