package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/ui/theme"
)

// Meter draws "label ████░░░░ n/total" in a fixed width. It is used for
// answered-question progress and per-topic scores.
type Meter struct {
	Label string
	Value int
	Total int
	Width int
	Color color.Color

	// ShowPercent replaces the n/total suffix with a percentage.
	ShowPercent bool
}

func NewMeter(label string, value, total, width int) Meter {
	return Meter{Label: label, Value: value, Total: total, Width: width, Color: theme.Secondary}
}

// Fraction is Value/Total clamped to [0, 1]. An empty meter is 0.
func (m Meter) Fraction() float64 {
	if m.Total <= 0 {
		return 0
	}
	return min(max(float64(m.Value)/float64(m.Total), 0), 1)
}

func (m Meter) suffix() string {
	if m.ShowPercent {
		return fmt.Sprintf("%3.0f%%", m.Fraction()*100)
	}
	return fmt.Sprintf("%d/%d", m.Value, m.Total)
}

func (m Meter) View() string {
	label := ""
	if m.Label != "" {
		label = m.Label + "  "
	}
	suffix := "  " + m.suffix()

	bar := max(m.Width-lipgloss.Width(label)-lipgloss.Width(suffix), 4)
	filled := int(float64(bar)*m.Fraction() + 0.5)

	return lipgloss.NewStyle().Foreground(theme.Text).Render(label) +
		lipgloss.NewStyle().Foreground(m.Color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", bar-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
