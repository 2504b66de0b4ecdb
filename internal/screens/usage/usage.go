// Package usage is the TUI view of the request log: token totals per
// purpose and the most recent generation calls.
package usage

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/llm"
	"github.com/abhisek/quizmint/internal/router"
	"github.com/abhisek/quizmint/internal/screen"
	"github.com/abhisek/quizmint/internal/store"
	"github.com/abhisek/quizmint/internal/ui/components"
	"github.com/abhisek/quizmint/internal/ui/layout"
	"github.com/abhisek/quizmint/internal/ui/theme"
)

const (
	recentLimit = 50
	loadTimeout = 5 * time.Second
)

type loadedMsg struct {
	purposes []store.PurposeUsage
	recent   []store.LLMRequestEvent
	err      error
}

type UsageScreen struct {
	repo store.EventRepo

	purposes []store.PurposeUsage
	recent   []store.LLMRequestEvent
	loaded   bool
	err      error

	cursor  int
	details bool
}

var (
	_ screen.Screen          = (*UsageScreen)(nil)
	_ screen.KeyHintProvider = (*UsageScreen)(nil)
)

func New(repo store.EventRepo) *UsageScreen {
	return &UsageScreen{repo: repo}
}

func (s *UsageScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var msg loadedMsg
		if msg.purposes, msg.err = repo.LLMUsageByPurpose(ctx); msg.err != nil {
			return msg
		}
		msg.recent, msg.err = repo.QueryLLMEvents(ctx, store.QueryOpts{Limit: recentLimit})
		return msg
	}
}

func (s *UsageScreen) Title() string { return "LLM Usage" }

func (s *UsageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select call"},
		{Key: "Enter", Description: "Toggle details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UsageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.purposes, s.recent, s.err = msg.purposes, msg.recent, msg.err
		s.loaded = true
	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.PopCmd
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = min(s.cursor+1, max(len(s.recent)-1, 0))
		case "enter":
			s.details = !s.details
		}
	}
	return s, nil
}

func (s *UsageScreen) View(width, height int) string {
	message := func(c color.Color, text string) string {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(c).Render(text))
	}
	switch {
	case s.err != nil:
		return message(theme.Error, "Could not read the request log: "+s.err.Error())
	case !s.loaded:
		return message(theme.TextDim, "Loading usage…")
	case len(s.recent) == 0:
		return message(theme.TextDim, "No LLM calls recorded yet.")
	}

	inner := min(width-4, 110)
	sections := []string{s.purposeSection(inner), s.callSection(inner, height)}
	if s.details {
		sections = append(sections, s.detailSection(inner))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func heading(text string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(text)
}

// purposeSection shows each purpose's share of all tokens.
func (s *UsageScreen) purposeSection(width int) string {
	total := 0
	for _, p := range s.purposes {
		total += p.InputTokens + p.OutputTokens
	}

	lines := []string{"", heading("By purpose")}
	for _, p := range s.purposes {
		label := fmt.Sprintf("%-14s %3d calls  %5dms avg", p.Purpose, p.Calls, p.AvgLatencyMs)
		m := components.NewMeter(label, p.InputTokens+p.OutputTokens, total, width)
		m.ShowPercent = true
		lines = append(lines, m.View())
	}
	return strings.Join(lines, "\n")
}

// callSection lists recent calls, scrolled so the cursor stays visible.
func (s *UsageScreen) callSection(width, height int) string {
	rows := max(height-len(s.purposes)-10, 3)
	first := max(0, min(s.cursor-rows/2, len(s.recent)-rows))
	last := min(first+rows, len(s.recent))

	lines := []string{"", heading(fmt.Sprintf("Recent calls (%d)", len(s.recent)))}
	for i := first; i < last; i++ {
		e := s.recent[i]
		cost := "-"
		if usd, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
			cost = fmt.Sprintf("$%.4f", usd)
		}
		outcome := "ok"
		if !e.Success {
			outcome = "failed"
		}
		row := fmt.Sprintf("%s  %-12s %-26s %7d tok %6dms %9s  %s",
			e.Timestamp.Local().Format("Jan 02 15:04"), e.Purpose, e.Model,
			e.InputTokens+e.OutputTokens, e.LatencyMs, cost, outcome)

		style := lipgloss.NewStyle().Foreground(theme.Text).MaxWidth(width)
		switch {
		case i == s.cursor:
			style = theme.Selected.MaxWidth(width)
			row = "▸ " + row
		case !e.Success:
			style = style.Foreground(theme.Error)
			row = "  " + row
		default:
			row = "  " + row
		}
		lines = append(lines, style.Render(row))
	}
	return strings.Join(lines, "\n")
}

func (s *UsageScreen) detailSection(width int) string {
	e := s.recent[s.cursor]
	fields := []string{
		fmt.Sprintf("#%d via %s", e.ID, e.Provider),
		fmt.Sprintf("tokens: %d in, %d out", e.InputTokens, e.OutputTokens),
	}
	if e.ErrorMessage != "" {
		fields = append(fields, "error: "+e.ErrorMessage)
	}
	if first, _, _ := strings.Cut(e.RequestBody, "\n"); first != "" {
		fields = append(fields, "request: "+first)
	}
	return "\n" + lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.Border).
		PaddingLeft(1).
		MaxWidth(width).
		Render(strings.Join(fields, "\n"))
}
