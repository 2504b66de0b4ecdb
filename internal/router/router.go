// Package router keeps the stack of TUI screens. Screens navigate by
// returning the commands built by PushCmd, ReplaceCmd and PopCmd.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizmint/internal/screen"
)

type PushScreenMsg struct {
	Screen screen.Screen
}

// ReplaceScreenMsg swaps the active screen in place, so that going back
// skips it. Compose → quiz → results use it.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

type PopScreenMsg struct{}

func PushCmd(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

func ReplaceCmd(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

func PopCmd() tea.Msg {
	return PopScreenMsg{}
}

// Router owns the screen stack. The root screen is never popped.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int {
	return len(r.stack) - 1
}

// Push makes s the active screen and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	r.stack[r.top()] = s
	return s.Init()
}

// Pop drops the active screen unless it is the root.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack[r.top()] = nil
		r.stack = r.stack[:r.top()]
	}
	return nil
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	next, cmd := active.Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
