package server

import (
	"time"

	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/session"
)

type questionView struct {
	Index    int       `json:"index"`
	Question string    `json:"question"`
	Options  [4]string `json:"options"`
	Topic    string    `json:"topic"`
	Answer   string    `json:"answer"`
}

type warningView struct {
	Kind    quizgen.WarningKind `json:"kind"`
	Topic   string              `json:"topic"`
	Message string              `json:"message"`
}

type assessmentView struct {
	ID               string         `json:"id"`
	Phase            string         `json:"phase"`
	Questions        []questionView `json:"questions"`
	Answered         int            `json:"answered"`
	Remaining        string         `json:"remaining"`
	RemainingSeconds int            `json:"remaining_seconds"`
	AutoSubmitted    bool           `json:"auto_submitted"`
	Message          string         `json:"message,omitempty"`
	Warnings         []warningView  `json:"warnings,omitempty"`
}

type reviewItem struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Topic         string `json:"topic"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

type topicView struct {
	session.TopicResult
	Message string `json:"message"`
}

type resultsView struct {
	ID            string       `json:"id"`
	Score         int          `json:"score"`
	Total         int          `json:"total"`
	Answered      int          `json:"answered"`
	AutoSubmitted bool         `json:"auto_submitted"`
	DurationSecs  int          `json:"duration_seconds"`
	ScoreLine     string       `json:"score_line"`
	Topics        []topicView  `json:"topics"`
	Review        []reviewItem `json:"review"`
}

// newAssessmentView renders a session without its answer key.
func newAssessmentView(s *session.Session, remaining time.Duration) assessmentView {
	qs := make([]questionView, len(s.Questions))
	for i, q := range s.Questions {
		qs[i] = questionView{
			Index:    i,
			Question: q.Text,
			Options:  q.Options,
			Topic:    q.Topic,
			Answer:   s.Answers[i],
		}
	}
	return assessmentView{
		ID:               s.ID,
		Phase:            s.Phase.String(),
		Questions:        qs,
		Answered:         s.Answered(),
		Remaining:        session.FormatRemaining(remaining),
		RemainingSeconds: int(remaining.Seconds()),
		AutoSubmitted:    s.AutoSubmitted,
	}
}

func newWarningViews(ws []quizgen.Warning) []warningView {
	out := make([]warningView, 0, len(ws))
	for _, w := range ws {
		out = append(out, warningView{Kind: w.Kind, Topic: w.Topic, Message: w.Message()})
	}
	return out
}

func newResultsView(s *session.Session) resultsView {
	sum := session.BuildSummary(s)

	topics := make([]topicView, len(sum.Topics))
	for i, t := range sum.Topics {
		topics[i] = topicView{TopicResult: t, Message: t.Message()}
	}

	review := make([]reviewItem, len(s.Questions))
	for i, q := range s.Questions {
		review[i] = reviewItem{
			Index:         i,
			Question:      q.Text,
			Topic:         q.Topic,
			Answer:        s.Answers[i],
			CorrectAnswer: q.CorrectOption(),
			IsCorrect:     q.IsCorrect(s.Answers[i]),
		}
	}

	return resultsView{
		ID:            s.ID,
		Score:         sum.Score,
		Total:         sum.Total,
		Answered:      sum.Answered,
		AutoSubmitted: sum.AutoSubmitted,
		DurationSecs:  int(sum.Duration.Seconds()),
		ScoreLine:     sum.ScoreLine(),
		Topics:        topics,
		Review:        review,
	}
}
