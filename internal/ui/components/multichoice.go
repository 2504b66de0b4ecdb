package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/ui/theme"
)

// MultiChoice renders one question with its four lettered options.
type MultiChoice struct {
	Question quizgen.Question

	// Cursor is the highlighted option, 0..3.
	Cursor int

	// Chosen is the option text currently recorded as the answer, if any.
	Chosen string

	// Reveal marks the correct option and a wrong choice.
	Reveal bool
}

// NewMultiChoice creates a selector for q with the cursor on the chosen
// option, or on the first one.
func NewMultiChoice(q quizgen.Question, chosen string) MultiChoice {
	m := MultiChoice{Question: q, Chosen: chosen}
	for i, opt := range q.Options {
		if chosen != "" && opt == chosen {
			m.Cursor = i
			break
		}
	}
	return m
}

// Up moves the cursor to the previous option.
func (m MultiChoice) Up() MultiChoice {
	if m.Cursor > 0 {
		m.Cursor--
	}
	return m
}

// Down moves the cursor to the next option.
func (m MultiChoice) Down() MultiChoice {
	if m.Cursor < len(m.Question.Options)-1 {
		m.Cursor++
	}
	return m
}

// CursorLetter returns the letter under the cursor.
func (m MultiChoice) CursorLetter() quizgen.Letter {
	return quizgen.Letters[m.Cursor]
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question.Text))
	b.WriteString("\n\n")

	correct := m.Question.Correct.Index()
	for i, opt := range m.Question.Options {
		prefix := "  "
		if i == m.Cursor && !m.Reveal {
			prefix = "▸ "
		}
		mark := " "
		if m.Chosen != "" && opt == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, quizgen.Letters[i], opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Reveal && i == correct:
			style = theme.Correct
		case m.Reveal && opt == m.Chosen:
			style = theme.Incorrect
		case m.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
