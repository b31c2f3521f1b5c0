package core

import (
	"context"
	"os/exec"
	"time"
)

// Cmd describes work for the Program to run off the loop goroutine. A nil
// Cmd does nothing. Commands are inert until returned from Init or Update.
type Cmd interface {
	isCmd()
}

// Effect is the body of a single command. ctx is cancelled when the
// Program abandons pending work at shutdown.
type Effect func(ctx context.Context) Msg

type single struct{ fn Effect }

type batch []Cmd

type sequence []Cmd

type tick struct {
	d  time.Duration
	fn func(time.Time) Msg
}

type quit struct{}

type suspend struct{}

type resume struct{}

type repaint struct{}

type execProcess struct {
	cmd *exec.Cmd
	fn  func(error) Msg
}

func (single) isCmd()      {}
func (batch) isCmd()       {}
func (sequence) isCmd()    {}
func (tick) isCmd()        {}
func (quit) isCmd()        {}
func (suspend) isCmd()     {}
func (resume) isCmd()      {}
func (repaint) isCmd()     {}
func (execProcess) isCmd() {}

// Single runs fn and delivers its message, if any.
func Single(fn Effect) Cmd {
	if fn == nil {
		return nil
	}
	return single{fn: fn}
}

// Send delivers msg as if a command had produced it.
func Send(msg Msg) Cmd {
	return single{fn: func(context.Context) Msg { return msg }}
}

// Try runs fn and delivers its message. A failure is mapped through onErr,
// or delivered as ErrorMsg when onErr is nil.
func Try(fn func(ctx context.Context) (Msg, error), onErr func(error) Msg) Cmd {
	return single{fn: func(ctx context.Context) Msg {
		msg, err := fn(ctx)
		if err == nil {
			return msg
		}
		if onErr != nil {
			return onErr(err)
		}
		return ErrorMsg{Err: err}
	}}
}

// Batch runs cmds concurrently. Their messages arrive in completion order.
func Batch(cmds ...Cmd) Cmd {
	cmds = compact(cmds)
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return batch(cmds)
}

// Sequence runs cmds one after another, each starting once the previous
// one's message has been delivered. A message that implements error ends
// the sequence.
func Sequence(cmds ...Cmd) Cmd {
	cmds = compact(cmds)
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return sequence(cmds)
}

// Tick delivers exactly one message no sooner than d from now. A nil fn
// delivers TickMsg.
func Tick(d time.Duration, fn func(time.Time) Msg) Cmd {
	return tick{d: d, fn: fn}
}

// Quit shuts the Program down gracefully.
func Quit() Cmd { return quit{} }

// Suspend releases the terminal: raw mode, input and drawing stop until
// Resume.
func Suspend() Cmd { return suspend{} }

// Resume reacquires the terminal after Suspend.
func Resume() Cmd { return resume{} }

// ClearScreen forces the next frame to be drawn in full.
func ClearScreen() Cmd { return repaint{} }

// Exec suspends the Program, runs c attached to the terminal, resumes and
// delivers fn(err). Nil stdio on c defaults to the Program's streams.
func Exec(c *exec.Cmd, fn func(error) Msg) Cmd {
	return execProcess{cmd: c, fn: fn}
}

// IsQuit reports whether c is the Quit command.
func IsQuit(c Cmd) bool {
	_, ok := c.(quit)
	return ok
}

func compact(cmds []Cmd) []Cmd {
	out := cmds[:0:0]
	for _, c := range cmds {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
