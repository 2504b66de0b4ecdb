package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/router"
	"github.com/abhisek/quizmint/internal/screen"
	"github.com/abhisek/quizmint/internal/screens/results"
	"github.com/abhisek/quizmint/internal/session"
	"github.com/abhisek/quizmint/internal/ui/components"
	"github.com/abhisek/quizmint/internal/ui/layout"
	"github.com/abhisek/quizmint/internal/ui/theme"
)

// TimeUpMessage is shown when the timer submits the session.
const TimeUpMessage = "Time is up! Submitting your answers automatically."

// timerTickMsg is sent every second to update the countdown.
type timerTickMsg time.Time

// QuizScreen runs one timed session.
type QuizScreen struct {
	sess    *session.Session
	index   int
	choice  components.MultiChoice
	notices []string

	confirming bool
	errMsg     string

	now func() time.Time
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
	_ screen.BackInterceptor = (*QuizScreen)(nil)
)

// New creates a QuizScreen over a started session. notices are shown above
// the first question until the learner presses a key.
func New(sess *session.Session, notices []string) *QuizScreen {
	s := &QuizScreen{
		sess:    sess,
		notices: notices,
		now:     time.Now,
	}
	s.load(0)
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return tickCmd()
}

func (s *QuizScreen) Title() string {
	return fmt.Sprintf("Question %d of %d", s.index+1, len(s.sess.Questions))
}

// Status shows the countdown, turning amber in the last five minutes and
// red in the last one.
func (s *QuizScreen) Status() layout.Status {
	left := s.sess.Remaining(s.now())
	st := layout.Status{Text: "⏱ " + session.FormatRemaining(left)}
	switch {
	case left <= time.Minute:
		st.Level = layout.LevelCritical
	case left <= 5*time.Minute:
		st.Level = layout.LevelWarning
	}
	return st
}

// InterceptsBack routes Esc to the submit confirmation.
func (s *QuizScreen) InterceptsBack() bool {
	return true
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "a-d", Description: "Answer"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "x", Description: "Clear"},
		{Key: "s", Description: "Submit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		s.sess.Tick(s.now())
		if s.sess.Submitted() {
			return s, s.showResults()
		}
		return s, tickCmd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	s.notices = nil
	s.errMsg = ""

	if s.confirming {
		switch key {
		case "y", "Y":
			s.confirming = false
			if err := s.sess.Submit(s.now()); err != nil && !errors.Is(err, session.ErrAlreadySubmitted) {
				s.errMsg = err.Error()
				return s, nil
			}
			return s, s.showResults()
		case "n", "N", "esc":
			s.confirming = false
		}
		return s, nil
	}

	switch key {
	case "esc", "s":
		s.confirming = true
	case "up", "k":
		s.choice = s.choice.Up()
	case "down", "j":
		s.choice = s.choice.Down()
	case "left", "h", "p":
		if s.index > 0 {
			s.load(s.index - 1)
		}
	case "right", "l", "n":
		if s.index < len(s.sess.Questions)-1 {
			s.load(s.index + 1)
		}
	case "a", "b", "c", "d":
		return s, s.selectLetter(quizgen.Letter(key))
	case "enter", "space":
		return s, s.selectLetter(s.choice.CursorLetter())
	case "x", "backspace":
		return s, s.apply(s.sess.Select(s.now(), s.index, ""))
	}
	return s, nil
}

func (s *QuizScreen) selectLetter(l quizgen.Letter) tea.Cmd {
	return s.apply(s.sess.SelectLetter(s.now(), s.index, l))
}

// apply reflects the outcome of an answer change on screen.
func (s *QuizScreen) apply(err error) tea.Cmd {
	switch {
	case err == nil:
		s.load(s.index)
		return nil
	case errors.Is(err, session.ErrAlreadySubmitted):
		return s.showResults()
	default:
		s.errMsg = err.Error()
		return nil
	}
}

func (s *QuizScreen) load(i int) {
	s.index = i
	s.choice = components.NewMultiChoice(s.sess.Questions[i], s.sess.Answers[i])
}

func (s *QuizScreen) showResults() tea.Cmd {
	var notice string
	if s.sess.AutoSubmitted {
		notice = TimeUpMessage
	}
	return router.ReplaceCmd(results.New(s.sess, notice))
}

func (s *QuizScreen) View(width, height int) string {
	if s.confirming {
		return s.renderConfirm(width)
	}

	var b strings.Builder

	for _, n := range s.notices {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Notice.Render(n)))
		b.WriteString("\n")
	}
	if len(s.notices) > 0 {
		b.WriteString("\n")
	}

	q := s.sess.Questions[s.index]
	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("  Topic: " + q.Topic)
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	block := lipgloss.NewStyle().Width(min(width-8, 90)).Render(s.choice.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
	b.WriteString("\n")

	answered := s.sess.Answered()
	total := len(s.sess.Questions)
	progress := components.NewMeter("Answered", answered, total, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, progress.View()))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Error).Render(s.errMsg))
	}

	return b.String()
}

func (s *QuizScreen) renderConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Submit your answers?"))
	b.WriteString("\n")

	unanswered := len(s.sess.Questions) - s.sess.Answered()
	detail := "Every question has an answer."
	if unanswered > 0 {
		detail = fmt.Sprintf("%d question(s) are still unanswered.", unanswered)
	}
	b.WriteString(center.Foreground(theme.TextDim).Bold(false).Render(detail))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, submit"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))

	return b.String()
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
