package core

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/inferadb/ferment/input"
	"github.com/inferadb/ferment/render"
)

// Mode selects how a Program talks to the user. It is decided once at
// startup and never re-read.
type Mode int

const (
	ModeInteractive Mode = iota
	ModeAccessible
)

func (m Mode) String() string {
	if m == ModeAccessible {
		return "accessible"
	}
	return "interactive"
}

// State is the Program lifecycle position.
type State int32

const (
	StateInitializing State = iota
	StateRunning
	StateSuspended
	StateQuitting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateQuitting:
		return "quitting"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// DefaultShutdownTimeout bounds how long Run waits for pending commands.
const DefaultShutdownTimeout = 2 * time.Second

// Tracer observes a running Program. Every method is called on the loop
// goroutine and must not block.
type Tracer interface {
	TraceStart(mode Mode, width, height int)
	TraceMessage(msg Msg)
	TraceFrame(view string)
	TraceExit(err error)
}

// ProgramOption configures a Program in NewProgram.
type ProgramOption func(*Program)

// WithContext kills the run with ErrKilled once ctx is done.
func WithContext(ctx context.Context) ProgramOption {
	return func(p *Program) { p.ctx = ctx }
}

// WithInput reads events from r instead of os.Stdin.
func WithInput(r io.Reader) ProgramOption {
	return func(p *Program) { p.input = r }
}

// WithOutput draws to w instead of os.Stdout.
func WithOutput(w io.Writer) ProgramOption {
	return func(p *Program) { p.output = w }
}

// WithMode selects interactive or accessible rendering.
func WithMode(m Mode) ProgramOption {
	return func(p *Program) { p.mode = m }
}

// WithFPS caps the interactive frame rate. Values <= 0 use render.DefaultFPS.
func WithFPS(fps int) ProgramOption {
	return func(p *Program) { p.fps = fps }
}

// WithShutdownTimeout bounds how long Run waits for pending commands on exit.
func WithShutdownTimeout(d time.Duration) ProgramOption {
	return func(p *Program) {
		if d > 0 {
			p.shutdownTimeout = d
		}
	}
}

// WithTickInterval makes the event source emit event.Tick at interval.
func WithTickInterval(d time.Duration) ProgramOption {
	return func(p *Program) { p.tickInterval = d }
}

// WithReduceMotion suppresses animated subscriptions in interactive mode.
func WithReduceMotion() ProgramOption {
	return func(p *Program) { p.reduceMotion = true }
}

// WithNoColor strips styling from every frame.
func WithNoColor() ProgramOption {
	return func(p *Program) { p.noColor = true }
}

// WithoutAltScreen renders inline instead of on the alternate screen.
func WithoutAltScreen() ProgramOption {
	return func(p *Program) { p.altScreen = false }
}

// WithoutMouse leaves mouse reporting off.
func WithoutMouse() ProgramOption {
	return func(p *Program) { p.mouse = false }
}

// WithoutSignalHandler leaves SIGINT and SIGTERM to the caller.
func WithoutSignalHandler() ProgramOption {
	return func(p *Program) { p.signals = false }
}

// WithWindowSize sets the size reported to the model when the output is
// not a terminal.
func WithWindowSize(width, height int) ProgramOption {
	return func(p *Program) { p.width, p.height = width, height }
}

// WithLogger sends the runtime's diagnostics to l. A nil l is ignored.
func WithLogger(l *slog.Logger) ProgramOption {
	return func(p *Program) {
		if l != nil {
			p.log = l
		}
	}
}

// WithTracer reports the run's lifecycle, messages and frames to t.
func WithTracer(t Tracer) ProgramOption {
	return func(p *Program) { p.tracer = t }
}

// WithRenderer replaces the interactive renderer.
func WithRenderer(r render.Renderer) ProgramOption {
	return func(p *Program) { p.renderer = r }
}

// WithEventSource replaces the default event source for the selected mode.
func WithEventSource(s input.Source) ProgramOption {
	return func(p *Program) { p.source = s }
}
