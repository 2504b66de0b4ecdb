package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizmint/internal/ui/theme"
)

// Button triggers OnPress on enter or space while focused. A busy button
// shows BusyLabel and ignores presses until Busy is cleared.
type Button struct {
	Label     string
	BusyLabel string
	Focused   bool
	Busy      bool
	OnPress   func() tea.Cmd
}

func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, BusyLabel: label + "…", OnPress: onPress}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Focused || b.Busy || b.OnPress == nil {
		return b, nil
	}
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter", "space":
			return b, b.OnPress()
		}
	}
	return b, nil
}

func (b Button) View() string {
	switch {
	case b.Busy:
		return theme.ButtonBusy.Render(b.BusyLabel)
	case b.Focused:
		return theme.ButtonFocused.Render("▸ " + b.Label)
	default:
		return theme.ButtonIdle.Render(b.Label)
	}
}
