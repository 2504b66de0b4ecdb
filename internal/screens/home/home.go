package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/router"
	"github.com/abhisek/quizmint/internal/screen"
	"github.com/abhisek/quizmint/internal/screens/compose"
	"github.com/abhisek/quizmint/internal/screens/setup"
	"github.com/abhisek/quizmint/internal/screens/usage"
	"github.com/abhisek/quizmint/internal/store"
	"github.com/abhisek/quizmint/internal/ui/components"
	"github.com/abhisek/quizmint/internal/ui/theme"
)

const tagline = "Paste your study notes, get a timed multiple-choice assessment."

// HomeScreen is the main menu.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. A nil service means no LLM provider is
// configured; a nil eventRepo hides usage history.
func New(service *assessment.Service, eventRepo store.EventRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "NEW ASSESSMENT", Shortcut: "n", Hint: "paste topics and generate questions", Action: func() tea.Cmd {
			if service == nil {
				return router.PushCmd(setup.New())
			}
			return router.PushCmd(compose.New(service))
		}},
		{Label: "LLM USAGE", Shortcut: "u", Hint: "tokens and cost per purpose", Disabled: eventRepo == nil, Action: func() tea.Cmd {
			return router.PushCmd(usage.New(eventRepo))
		}},
		{Label: "QUIT", Shortcut: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Q U I Z M I N T"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(tagline))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())

	card := theme.Card.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
