package core

import (
	"time"

	"github.com/inferadb/ferment/event"
)

// Msg is any value delivered to Update.
type Msg interface{}

// Model is an application driven by a Program.
type Model interface {
	// Init returns the command to run before the first event.
	Init() Cmd
	// Update applies msg and returns follow-up work, or nil.
	Update(msg Msg) Cmd
	// View renders the current state. It must not mutate the model.
	View() string
	// HandleEvent maps an input event to a message. Returning nil drops
	// the event without calling Update.
	HandleEvent(ev event.Event) Msg
}

// Subscriber is implemented by models that declare long-lived producers.
// Subscriptions is called after every Update.
type Subscriber interface {
	Subscriptions() []Sub
}

// Accessible is implemented by models that can run as a line-oriented
// prompt loop for screen readers.
type Accessible interface {
	AccessiblePrompt() string
	// ParseAccessibleInput maps one line to a message. nil means the
	// line was not understood and the prompt is shown again.
	ParseAccessibleInput(line string) Msg
	IsAccessibleComplete() bool
}

// QuitMsg asks the Program to shut down gracefully.
type QuitMsg struct{}

// CancelMsg is sent when the user aborts an accessible prompt. In
// accessible mode the Program returns a nil model without error.
type CancelMsg struct{}

// ErrorMsg carries a failure from a command, including recovered panics.
type ErrorMsg struct {
	Err error
}

func (m ErrorMsg) Error() string {
	if m.Err == nil {
		return "unknown error"
	}
	return m.Err.Error()
}

func (m ErrorMsg) Unwrap() error { return m.Err }

// TickMsg is delivered by a Tick or Every without a mapping function.
type TickMsg struct {
	Time time.Time
}

type suspendMsg struct{ ack chan struct{} }

type resumeMsg struct{ ack chan struct{} }

type repaintMsg struct{}
