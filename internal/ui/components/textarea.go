package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// TextArea wraps bubbles/textarea for multi-line study material.
type TextArea struct {
	Model textarea.Model
}

// NewTextArea creates a focused text area with the given placeholder.
func NewTextArea(placeholder string, width, height int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()
	return TextArea{Model: ta}
}

// Init returns the focus command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards msg to the underlying model.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Resize updates the editor dimensions.
func (t *TextArea) Resize(width, height int) {
	if width > 0 {
		t.Model.SetWidth(width)
	}
	if height > 0 {
		t.Model.SetHeight(height)
	}
}

// Focus gives keyboard focus to the editor.
func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextArea) Blur() {
	t.Model.Blur()
}

// Focused reports whether the editor has focus.
func (t TextArea) Focused() bool {
	return t.Model.Focused()
}

// View renders the editor.
func (t TextArea) View() string {
	return t.Model.View()
}

// Value returns the current text.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// SetValue replaces the current text.
func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
}
