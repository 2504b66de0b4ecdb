package results

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/router"
	"github.com/abhisek/quizmint/internal/screen"
	"github.com/abhisek/quizmint/internal/session"
	"github.com/abhisek/quizmint/internal/ui/components"
	"github.com/abhisek/quizmint/internal/ui/layout"
	"github.com/abhisek/quizmint/internal/ui/theme"
)

// ResultsScreen displays the score and per-topic feedback of a submitted
// session.
type ResultsScreen struct {
	sess      *session.Session
	summary   *session.Summary
	notice    string
	reviewing bool
	offset    int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for a submitted session. notice is shown above
// the score, e.g. when the timer submitted the answers.
func New(sess *session.Session, notice string) *ResultsScreen {
	return &ResultsScreen{
		sess:    sess,
		summary: session.BuildSummary(sess),
		notice:  notice,
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	review := "Review answers"
	if s.reviewing {
		review = "Summary"
	}
	return []layout.KeyHint{
		{Key: "r", Description: review},
		{Key: "Enter", Description: "Home"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, router.PopCmd
	case "r":
		s.reviewing = !s.reviewing
		s.offset = 0
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.reviewing && s.offset < len(s.sess.Questions)-1 {
			s.offset++
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	if s.summary == nil {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render("\n\nThis assessment has not been submitted.")
	}
	if s.reviewing {
		return s.renderReview(width, height)
	}

	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(center.Render(theme.Notice.Render(s.notice)))
		b.WriteString("\n\n")
	}

	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(sum.ScoreLine()))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Bold(false).Render(
		fmt.Sprintf("Answered %d of %d in %s", sum.Answered, sum.Total, session.FormatRemaining(sum.Duration))))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Topics")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, t := range sum.Topics {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(feedbackColor(t.Feedback)).Render(t.Message())))
		b.WriteString("\n")
		bar := components.NewMeter("", t.Correct, t.Total, min(width-8, 60))
		bar.Color = feedbackColor(t.Feedback)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	return b.String()
}

// renderReview lists each question with the learner's answer and the key,
// starting at the scroll offset.
func (s *ResultsScreen) renderReview(width, height int) string {
	var b strings.Builder
	lines := 0
	for i := s.offset; i < len(s.sess.Questions); i++ {
		q := s.sess.Questions[i]
		answer := s.sess.Answers[i]

		mark := theme.Incorrect.Render("✗")
		if q.IsCorrect(answer) {
			mark = theme.Correct.Render("✓")
		}
		if answer == "" {
			answer = "(no answer)"
		}

		entry := fmt.Sprintf("%s %s\n    Your answer: %s\n    Correct answer: %s) %s\n",
			mark, q.Text, answer, q.Correct, q.CorrectOption())
		n := strings.Count(entry, "\n") + 1
		if lines > 0 && lines+n > height {
			break
		}
		b.WriteString(lipgloss.NewStyle().Width(min(width-4, 100)).Foreground(theme.Text).Render(entry))
		b.WriteString("\n")
		lines += n
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func feedbackColor(f session.Feedback) color.Color {
	switch f {
	case session.FeedbackStrong:
		return theme.Success
	case session.FeedbackWeak:
		return theme.Error
	default:
		return theme.Accent
	}
}
