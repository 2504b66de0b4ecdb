// Package layout draws the frame shared by every screen: a header with the
// screen title and status, the screen body, and a footer of key hints.
package layout

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/ui/theme"
)

const (
	// Smallest terminal a question with four wrapped options fits in.
	MinWidth  = 64
	MinHeight = 20

	// Bordered one-line bars.
	HeaderHeight = 3
	FooterHeight = 3
)

// KeyHint is one "Key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Level sets how loudly a header status is drawn.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

// Status is the short text on the right of the header, e.g. the time
// left in an assessment.
type Status struct {
	Text  string
	Level Level
}

func (s Status) color() color.Color {
	switch s.Level {
	case LevelWarning:
		return theme.Warning
	case LevelCritical:
		return theme.Error
	default:
		return theme.Accent
	}
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Quizmint needs at least %d×%d.\nThis terminal is %d×%d.", MinWidth, MinHeight, width, height))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader puts the app name on the left, title in the middle and
// status on the right.
func RenderHeader(title string, status Status, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" Quizmint")
	right := lipgloss.NewStyle().Foreground(status.color()).Bold(status.Level == LevelCritical).Render(status.Text + " ")

	inner := max(width-2, 0)
	mid := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 0)
	center := lipgloss.NewStyle().
		Width(mid).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(title)

	return bar(width).Render(left + center + right)
}

// RenderFooter lays out hints left to right, dropping the ones that do not
// fit. The last hint (usually quit) is always kept.
func RenderFooter(hints []KeyHint, width int) string {
	rendered := make([]string, len(hints))
	for i, h := range hints {
		rendered[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}

	const sep = "   "
	room := max(width-4, 0)
	var kept []string
	if n := len(rendered); n > 0 {
		last := rendered[n-1]
		used := lipgloss.Width(last)
		for _, r := range rendered[:n-1] {
			if used+len(sep)+lipgloss.Width(r) > room {
				break
			}
			kept = append(kept, r)
			used += len(sep) + lipgloss.Width(r)
		}
		kept = append(kept, last)
	}

	return bar(width).Render(" " + strings.Join(kept, sep))
}

// ContentHeight is what is left of height for the screen body.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// RenderFrame stacks header, body and footer, padding the body so the
// footer sits on the last rows.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(ContentHeight(header, footer, height)).
		MaxHeight(ContentHeight(header, footer, height)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
