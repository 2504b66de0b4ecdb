package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/router"
	"github.com/abhisek/quizmint/internal/screen"
	"github.com/abhisek/quizmint/internal/screens/quiz"
	"github.com/abhisek/quizmint/internal/ui/components"
	"github.com/abhisek/quizmint/internal/ui/layout"
	"github.com/abhisek/quizmint/internal/ui/theme"
)

const placeholderText = `Topic 1:
Details about topic 1...

Topic 2:
Details about topic 2...`

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// generatedMsg carries the outcome of a background generation.
type generatedMsg struct {
	Result *assessment.Result
	Err    error
}

// spinnerTickMsg animates the generating indicator.
type spinnerTickMsg time.Time

// ComposeScreen collects study material and starts generation.
type ComposeScreen struct {
	service *assessment.Service

	editor      components.TextArea
	button      components.Button
	focusButton bool

	generating bool
	cancel     context.CancelFunc
	frame      int

	status   string
	isError  bool
	warnings []string
}

var (
	_ screen.Screen          = (*ComposeScreen)(nil)
	_ screen.KeyHintProvider = (*ComposeScreen)(nil)
	_ screen.BackInterceptor = (*ComposeScreen)(nil)
)

// New creates a ComposeScreen that generates through service.
func New(service *assessment.Service) *ComposeScreen {
	s := &ComposeScreen{
		service: service,
		editor:  components.NewTextArea(placeholderText, 72, 12),
	}
	s.button = components.NewButton("Generate Assessment", s.start)
	s.button.BusyLabel = "Generating…"
	return s
}

func (s *ComposeScreen) Init() tea.Cmd {
	return s.editor.Init()
}

func (s *ComposeScreen) Title() string {
	return "New Assessment"
}

func (s *ComposeScreen) KeyHints() []layout.KeyHint {
	if s.generating {
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch focus"},
		{Key: "Ctrl+S", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

// InterceptsBack keeps Esc on this screen while generation is running so
// it cancels the request instead of leaving.
func (s *ComposeScreen) InterceptsBack() bool {
	return s.generating
}

func (s *ComposeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.editor.Resize(min(msg.Width-8, 100), max(msg.Height-layout.HeaderHeight-layout.FooterHeight-12, 5))
		return s, nil

	case generatedMsg:
		return s.handleGenerated(msg)

	case spinnerTickMsg:
		if !s.generating {
			return s, nil
		}
		s.frame = (s.frame + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.focusButton && !s.generating {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ComposeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.generating {
		if msg.String() == "esc" && s.cancel != nil {
			s.cancel()
		}
		return s, nil
	}

	switch msg.String() {
	case "tab", "shift+tab":
		s.focusButton = !s.focusButton
		s.button.Focused = s.focusButton
		if s.focusButton {
			s.editor.Blur()
			return s, nil
		}
		return s, s.editor.Focus()
	case "ctrl+s":
		return s, s.start()
	}

	if s.focusButton {
		var cmd tea.Cmd
		s.button, cmd = s.button.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return s, cmd
}

// start launches generation in the background.
func (s *ComposeScreen) start() tea.Cmd {
	if s.generating {
		return nil
	}

	content := s.editor.Value()
	ctx, cancel := context.WithCancel(context.Background())
	s.generating = true
	s.button.Busy = true
	s.cancel = cancel
	s.status = ""
	s.isError = false
	s.warnings = nil

	service := s.service
	return tea.Batch(
		func() tea.Msg {
			res, err := service.Generate(ctx, content)
			return generatedMsg{Result: res, Err: err}
		},
		spinnerTick(),
	)
}

func (s *ComposeScreen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	s.generating = false
	s.button.Busy = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	var warnings []string
	for _, w := range msg.Result.Warnings() {
		warnings = append(warnings, w.Message())
	}

	if msg.Err != nil {
		s.status = assessment.UserMessage(msg.Err)
		s.isError = true
		s.warnings = warnings
		return s, nil
	}

	notices := append([]string{assessment.SuccessMessage}, warnings...)
	return s, router.ReplaceCmd(quiz.New(msg.Result.Session, notices))
}

func (s *ComposeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Subtitle.Render("Enter topics and details. Each line ending in ':' starts a new topic."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.editor.View()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.button.View()))
	b.WriteString("\n\n")

	if s.generating {
		line := fmt.Sprintf("%s Generating questions...", spinnerFrames[s.frame])
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Secondary).Render(line))
		return b.String()
	}

	if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if s.isError {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Render(style.Render(s.status)))
		b.WriteString("\n")
	}
	for _, w := range s.warnings {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Render(theme.Notice.Render(w)))
		b.WriteString("\n")
	}

	return b.String()
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
