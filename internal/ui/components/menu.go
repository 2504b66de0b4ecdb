package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Shortcut, when set, activates the item
// directly; Hint is shown next to the highlighted item.
type MenuItem struct {
	Label    string
	Shortcut string
	Hint     string
	Disabled bool
	Action   func() tea.Cmd
}

// Menu is a vertical list of actions. Navigation skips disabled items and
// wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.next(-1, 1)
	return m
}

// next finds the first enabled item after from in direction dir, or from
// itself when none is.
func (m Menu) next(from, dir int) int {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((from+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			return i
		}
	}
	return from
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch key.String() {
	case "up", "k", "shift+tab":
		m.Selected = m.next(m.Selected, -1)
	case "down", "j", "tab":
		m.Selected = m.next(m.Selected, 1)
	case "enter":
		return m, m.activate(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Shortcut != "" && strings.EqualFold(item.Shortcut, key.String()) && !item.Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if item.Shortcut != "" {
			label = "[" + item.Shortcut + "] " + label
		}

		switch {
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("    " + label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + label))
			if item.Hint != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + item.Hint))
			}
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
