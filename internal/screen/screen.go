// Package screen defines what the router stacks. Screens draw only their
// body; the app draws the header and footer around it from the optional
// interfaces below.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizmint/internal/ui/layout"
)

type Screen interface {
	Init() tea.Cmd
	// Update returns the screen to keep on the stack, usually the receiver.
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints. The app appends the
// quit hint.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider fills the right side of the header, e.g. the countdown.
type StatusProvider interface {
	Status() layout.Status
}

// BackInterceptor screens receive Esc themselves while InterceptsBack is
// true instead of being popped.
type BackInterceptor interface {
	InterceptsBack() bool
}
