// Package setup is shown in place of the compose screen when no LLM
// provider could be configured.
package setup

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/screen"
	"github.com/abhisek/quizmint/internal/ui/layout"
	"github.com/abhisek/quizmint/internal/ui/theme"
)

// KeyVars are the API key variables probed at startup, in order.
var KeyVars = []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"}

type Screen struct{}

var _ screen.Screen = (*Screen)(nil)

func New() *Screen {
	return &Screen{}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *Screen) Title() string { return "Setup" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *Screen) View(width, height int) string {
	code := lipgloss.NewStyle().Foreground(theme.Accent)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(theme.Title.Render("No LLM provider configured"))
	b.WriteString("\n\n")
	b.WriteString("Set one of these and restart quizmint:\n\n")
	for _, v := range KeyVars {
		b.WriteString("  " + code.Render(v) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("A .env file in the working directory is read too.\n"))
	b.WriteString(dim.Render("To try the app offline, set ") + code.Render("QUIZMINT_LLM_PROVIDER=mock") + dim.Render("."))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(b.String()))
}
