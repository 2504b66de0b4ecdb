// Package app is the root Bubble Tea model. It owns the screen router,
// handles the keys that work everywhere, and draws the shared frame.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/router"
	"github.com/abhisek/quizmint/internal/screen"
	"github.com/abhisek/quizmint/internal/screens/home"
	"github.com/abhisek/quizmint/internal/store"
	"github.com/abhisek/quizmint/internal/ui/layout"
)

// Options wires the TUI to the rest of the program. Both fields may be nil:
// without a service the home screen explains how to configure a provider,
// without an event repo the usage screen is disabled.
type Options struct {
	Service   *assessment.Service
	EventRepo store.EventRepo
}

var quitHint = layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}

type Model struct {
	router        *router.Router
	width, height int
}

func New(opts Options) Model {
	return Model{router: router.New(home.New(opts.Service, opts.EventRepo))}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyPressMsg:
		if cmd, handled := m.globalKey(msg); handled {
			return m, cmd
		}
	}
	return m, m.router.Update(msg)
}

// globalKey handles quit and back. Esc goes to the active screen instead
// when it intercepts back, e.g. to confirm abandoning a running quiz.
func (m Model) globalKey(key tea.KeyPressMsg) (tea.Cmd, bool) {
	switch key.String() {
	case "ctrl+c":
		return tea.Quit, true
	case "esc":
		if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptsBack() {
			return nil, false
		}
		if m.router.Depth() > 1 {
			return router.PopCmd, true
		}
		return nil, true
	}
	return nil, false
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if active := m.router.Active(); active != nil {
		v.WindowTitle = "Quizmint · " + active.Title()
	}
	v.SetContent(m.render())
	return v
}

func (m Model) render() string {
	switch {
	case m.width == 0 || m.height == 0:
		return ""
	case layout.IsTooSmall(m.width, m.height):
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var status layout.Status
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(active.Title(), status, m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)
	body := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, body, footer, m.width, m.height)
}

func (m Model) hints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	switch kp, ok := active.(screen.KeyHintProvider); {
	case ok:
		hints = kp.KeyHints()
	case m.router.Depth() > 1:
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	default:
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	return append(hints, quitHint)
}

// Run blocks until the user quits.
func Run(opts Options) error {
	if _, err := tea.NewProgram(New(opts)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error: terminal UI:", err)
		return err
	}
	return nil
}
