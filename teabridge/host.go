// Package teabridge runs Bubble Tea models inside a ferment Program.
//
// Events are translated into the equivalent tea messages and tea commands
// into core commands, so existing bubbles components can be hosted without
// changes.
package teabridge

import (
	"context"
	"go/token"
	"reflect"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

const teaPkg = "github.com/charmbracelet/bubbletea"

// Host adapts a tea.Model to core.Model.
type Host struct {
	model tea.Model
}

func New(m tea.Model) *Host {
	return &Host{model: m}
}

// Model returns the hosted model in its current state.
func (h *Host) Model() tea.Model { return h.model }

func (h *Host) Init() core.Cmd {
	return Cmd(h.model.Init())
}

func (h *Host) Update(msg core.Msg) core.Cmd {
	switch m := msg.(type) {
	case tea.BatchMsg:
		return core.Batch(cmds(m)...)
	case tea.QuitMsg, tea.InterruptMsg:
		return core.Quit()
	case tea.SuspendMsg:
		return core.Suspend()
	}
	if seq, ok := sequence(msg); ok {
		return core.Sequence(cmds(seq)...)
	}
	if internal(msg) {
		if reflect.TypeOf(msg).Name() == "clearScreenMsg" {
			return core.ClearScreen()
		}
		return nil
	}

	next, cmd := h.model.Update(msg)
	h.model = next
	return Cmd(cmd)
}

func (h *Host) View() string {
	return h.model.View()
}

func (h *Host) HandleEvent(ev event.Event) core.Msg {
	return Msg(ev)
}

// Cmd wraps a tea.Cmd as a core command. The message it produces comes back
// through Host.Update, which unpacks batches and sequences. tea.Quit itself
// maps straight to core.Quit so the Program stops on the same update.
func Cmd(c tea.Cmd) core.Cmd {
	if c == nil {
		return nil
	}
	if reflect.ValueOf(c).Pointer() == teaQuit {
		return core.Quit()
	}
	return core.Single(func(context.Context) core.Msg {
		return c()
	})
}

func cmds(in []tea.Cmd) []core.Cmd {
	out := make([]core.Cmd, 0, len(in))
	for _, c := range in {
		out = append(out, Cmd(c))
	}
	return out
}

var (
	cmdSlice = reflect.TypeOf([]tea.Cmd(nil))
	teaQuit  = reflect.ValueOf(tea.Quit).Pointer()
)

// sequence unpacks the unexported message produced by tea.Sequence.
func sequence(msg core.Msg) ([]tea.Cmd, bool) {
	t := reflect.TypeOf(msg)
	if t == nil || t.PkgPath() != teaPkg || t.Name() != "sequenceMsg" || !t.ConvertibleTo(cmdSlice) {
		return nil, false
	}
	return reflect.ValueOf(msg).Convert(cmdSlice).Interface().([]tea.Cmd), true
}

// internal reports tea's unexported control messages (alt screen, cursor,
// window title and the like) which a tea model never receives.
func internal(msg core.Msg) bool {
	t := reflect.TypeOf(msg)
	if t == nil || t.PkgPath() != teaPkg {
		return false
	}
	name := t.Name()
	return name != "" && !token.IsExported(name)
}
