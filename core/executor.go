package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// executor runs commands on their own goroutines and hands results to
// deliver. It never calls Update.
type executor struct {
	deliver func(Msg) bool
	log     *slog.Logger
	stdin   io.Reader
	stdout  io.Writer

	effects    context.Context
	abandon    context.CancelFunc
	timers     context.Context
	stopTimers context.CancelFunc
	wg         sync.WaitGroup
}

func newExecutor(parent context.Context, deliver func(Msg) bool, log *slog.Logger) *executor {
	e := &executor{deliver: deliver, log: log}
	e.effects, e.abandon = context.WithCancel(parent)
	e.timers, e.stopTimers = context.WithCancel(e.effects)
	return e
}

// start runs c asynchronously. It returns immediately.
func (e *executor) start(c Cmd) {
	if c == nil {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(c)
	}()
}

// run executes c to completion. It returns false when a sequence that
// contains c must stop: delivery was refused or c produced an error.
func (e *executor) run(c Cmd) bool {
	switch c := c.(type) {
	case nil:
		return true
	case single:
		return e.emit(e.call(c.fn))
	case batch:
		var (
			wg     sync.WaitGroup
			failed atomic.Bool
		)
		for _, sub := range c {
			wg.Add(1)
			go func(sub Cmd) {
				defer wg.Done()
				if !e.run(sub) {
					failed.Store(true)
				}
			}(sub)
		}
		wg.Wait()
		return !failed.Load()
	case sequence:
		for _, sub := range c {
			if !e.run(sub) {
				return false
			}
		}
		return true
	case tick:
		t := time.NewTimer(c.d)
		defer t.Stop()
		select {
		case now := <-t.C:
			return e.emit(e.call(func(context.Context) Msg {
				if c.fn == nil {
					return TickMsg{Time: now}
				}
				return c.fn(now)
			}))
		case <-e.timers.Done():
			return false
		}
	case quit:
		return e.emit(QuitMsg{})
	case suspend:
		return e.control(suspendMsg{ack: make(chan struct{})})
	case resume:
		return e.control(resumeMsg{ack: make(chan struct{})})
	case repaint:
		return e.emit(repaintMsg{})
	case execProcess:
		return e.runProcess(c)
	default:
		e.log.Warn("unknown command", "type", fmt.Sprintf("%T", c))
		return true
	}
}

func (e *executor) call(fn Effect) (msg Msg) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("command panicked", "panic", r)
			msg = ErrorMsg{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()
	return fn(e.effects)
}

func (e *executor) emit(msg Msg) bool {
	if msg == nil {
		return true
	}
	if !e.deliver(msg) {
		return false
	}
	_, failed := msg.(error)
	return !failed
}

// control delivers a terminal hand-off request and waits until the loop
// has acted on it.
func (e *executor) control(msg Msg) bool {
	var ack chan struct{}
	switch m := msg.(type) {
	case suspendMsg:
		ack = m.ack
	case resumeMsg:
		ack = m.ack
	}
	if !e.deliver(msg) {
		return false
	}
	select {
	case <-ack:
		return true
	case <-e.effects.Done():
		return false
	}
}

func (e *executor) runProcess(c execProcess) bool {
	if c.cmd == nil {
		return true
	}
	if !e.control(suspendMsg{ack: make(chan struct{})}) {
		return false
	}
	if c.cmd.Stdin == nil {
		c.cmd.Stdin = e.stdin
	}
	if c.cmd.Stdout == nil {
		c.cmd.Stdout = e.stdout
	}
	if c.cmd.Stderr == nil {
		c.cmd.Stderr = e.stdout
	}
	err := c.cmd.Run()
	e.log.Debug("process exited", "path", c.cmd.Path, "error", err)
	if !e.control(resumeMsg{ack: make(chan struct{})}) {
		return false
	}
	var msg Msg
	switch {
	case c.fn != nil:
		msg = c.fn(err)
	case err != nil:
		msg = ErrorMsg{Err: err}
	}
	return e.emit(msg)
}
