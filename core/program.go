package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/inferadb/ferment/event"
	"github.com/inferadb/ferment/input"
	"github.com/inferadb/ferment/render"
	"github.com/inferadb/ferment/tty"
)

// inputStopWait bounds how long suspend and shutdown wait for the input
// reader to let go of the terminal.
const inputStopWait = 500 * time.Millisecond

const invalidInputPrompt = "Invalid input, try again."

// Program runs a Model against a terminal.
type Program struct {
	model Model
	mode  Mode

	ctx             context.Context
	input           io.Reader
	output          io.Writer
	fps             int
	shutdownTimeout time.Duration
	tickInterval    time.Duration
	altScreen       bool
	mouse           bool
	noColor         bool
	reduceMotion    bool
	signals         bool
	width, height   int
	log             *slog.Logger
	tracer          Tracer
	renderer        render.Renderer
	source          input.Source

	msgs     chan Msg
	events   chan event.Event
	killc    chan struct{}
	killOnce sync.Once
	finished chan struct{}
	ran      atomic.Bool
	state    atomic.Int32

	term  *tty.Terminal
	exec  *executor
	subs  *subManager
	lines *render.Lines

	queued        []Msg
	srcCancel     context.CancelFunc
	srcStopped    chan struct{}
	inputDone     chan error
	promptPending bool
	cancelled     bool
}

// NewProgram returns a Program that will drive model once Run is called.
func NewProgram(model Model, opts ...ProgramOption) *Program {
	p := &Program{
		model:           model,
		ctx:             context.Background(),
		input:           os.Stdin,
		output:          os.Stdout,
		fps:             render.DefaultFPS,
		shutdownTimeout: DefaultShutdownTimeout,
		altScreen:       true,
		mouse:           true,
		signals:         true,
		log:             slog.New(slog.DiscardHandler),
		msgs:            make(chan Msg),
		events:          make(chan event.Event),
		killc:           make(chan struct{}),
		finished:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state. Safe from any goroutine.
func (p *Program) State() State { return State(p.state.Load()) }

func (p *Program) setState(s State) {
	if State(p.state.Swap(int32(s))) != s {
		p.log.Debug("program state", "state", s.String())
	}
}

// Send delivers msg to Update from outside the Program. It blocks until
// the loop accepts it and is a no-op once Run has returned.
func (p *Program) Send(msg Msg) {
	select {
	case p.msgs <- msg:
	case <-p.finished:
	}
}

// Quit asks the Program to shut down gracefully.
func (p *Program) Quit() { p.Send(QuitMsg{}) }

// Kill stops the Program without waiting for pending commands. Run
// returns ErrKilled.
func (p *Program) Kill() {
	p.killOnce.Do(func() { close(p.killc) })
}

// Wait blocks until Run has returned.
func (p *Program) Wait() { <-p.finished }

// Run drives the model until it quits and returns the final model. A
// cancelled accessible prompt returns (nil, nil).
func (p *Program) Run() (Model, error) {
	if !p.ran.CompareAndSwap(false, true) {
		return nil, ErrProgramDone
	}
	defer close(p.finished)
	defer p.setState(StateTerminated)
	p.setState(StateInitializing)

	p.exec = newExecutor(p.ctx, p.deliver, p.log)
	p.exec.stdin, p.exec.stdout = p.input, p.output
	p.subs = newSubManager(p.ctx, p.deliverFrom, p.log)
	p.subs.reduceMotion = p.reduceMotion || p.mode == ModeAccessible

	stopSignals := p.handleSignals()
	defer stopSignals()

	p.log.Info("program starting", "mode", p.mode.String())
	if p.mode == ModeAccessible {
		return p.runAccessible()
	}
	return p.runInteractive()
}

func (p *Program) runInteractive() (Model, error) {
	p.term = tty.New(p.input, p.output)
	if p.source == nil && tty.IsFile(p.input) && !p.term.InputIsTerminal() {
		return p.model, fmt.Errorf("%w: %w", ErrSetup, ErrNoTTY)
	}
	if err := p.term.MakeRaw(); err != nil {
		return p.model, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	defer func() {
		if err := p.term.Restore(); err != nil {
			p.log.Error("restore terminal", "error", err)
		}
	}()

	if w, h, err := p.term.Size(); err == nil {
		p.width, p.height = w, h
	}
	if p.renderer == nil {
		p.renderer = render.NewDifferential(p.output, render.Options{
			FPS:       p.fps,
			AltScreen: p.altScreen,
			Mouse:     p.mouse,
			NoColor:   p.noColor,
			Width:     p.width,
			Height:    p.height,
		})
	}
	if err := p.renderer.Start(); err != nil {
		_ = p.renderer.Stop()
		return p.model, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	if p.tracer != nil {
		p.tracer.TraceStart(p.mode, p.width, p.height)
	}

	p.startInput()
	p.exec.start(p.model.Init())
	if p.width > 0 && p.height > 0 {
		p.renderer.Resize(p.width, p.height)
		if msg := p.model.HandleEvent(event.Resize{Width: p.width, Height: p.height}); msg != nil {
			p.queued = append(p.queued, msg)
		}
	}
	p.reconcile()
	p.render()
	p.setState(StateRunning)

	return p.shutdown(p.loop())
}

func (p *Program) runAccessible() (Model, error) {
	p.lines = render.NewLines(p.output)
	if p.tracer != nil {
		p.tracer.TraceStart(p.mode, 0, 0)
	}
	p.promptPending = true
	p.startInput()
	p.exec.start(p.model.Init())
	p.reconcile()
	p.setState(StateRunning)
	p.render()

	if acc, ok := p.model.(Accessible); ok && acc.IsAccessibleComplete() {
		return p.shutdown(nil)
	}
	return p.shutdown(p.loop())
}

func (p *Program) loop() error {
	for {
		msg, err := p.next()
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}
		done, err := p.process(msg)
		if err != nil || done {
			return err
		}
	}
}

// next returns the next message to process. Input events win over
// command results when both are ready.
func (p *Program) next() (Msg, error) {
	if len(p.queued) > 0 {
		msg := p.queued[0]
		p.queued = p.queued[1:]
		return msg, nil
	}
	select {
	case ev := <-p.events:
		return p.translate(ev), nil
	default:
	}
	select {
	case ev := <-p.events:
		return p.translate(ev), nil
	case msg := <-p.msgs:
		return msg, nil
	case err := <-p.inputDone:
		return p.inputEnded(err), nil
	case err := <-p.renderErrors():
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	case <-p.killc:
		return nil, ErrKilled
	case <-p.ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrKilled, p.ctx.Err())
	}
}

func (p *Program) renderErrors() <-chan error {
	if p.mode == ModeAccessible {
		if p.lines == nil {
			return nil
		}
		return p.lines.Errors()
	}
	if p.renderer == nil {
		return nil
	}
	return p.renderer.Errors()
}

func (p *Program) translate(ev event.Event) Msg {
	if r, ok := ev.(event.Resize); ok {
		p.width, p.height = r.Width, r.Height
		if p.renderer != nil && p.mode == ModeInteractive {
			p.renderer.Resize(r.Width, r.Height)
		}
	}
	if line, ok := ev.(event.Line); ok && p.mode == ModeAccessible {
		return p.translateLine(line)
	}
	return p.model.HandleEvent(ev)
}

// translateLine feeds one line of accessible input to the model. Models
// without a prompt loop see the line as a paste followed by Enter.
func (p *Program) translateLine(line event.Line) Msg {
	if acc, ok := p.model.(Accessible); ok {
		p.promptPending = true
		msg := acc.ParseAccessibleInput(line.Text)
		if msg == nil {
			p.lines.Print(invalidInputPrompt)
			p.render()
		}
		return msg
	}
	first := p.model.HandleEvent(event.Paste{Text: line.Text})
	if enter := p.model.HandleEvent(event.Key{Type: event.KeyEnter}); enter != nil {
		p.queued = append(p.queued, enter)
	}
	return first
}

func (p *Program) inputEnded(err error) Msg {
	p.inputDone = nil
	if p.mode == ModeAccessible {
		p.log.Debug("accessible input closed", "error", err)
		return CancelMsg{}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		p.log.Warn("input failed", "error", err)
	} else {
		p.log.Debug("input closed")
	}
	return nil
}

// process applies one message. It reports true when the Program should
// begin shutting down.
func (p *Program) process(msg Msg) (bool, error) {
	switch m := msg.(type) {
	case QuitMsg:
		return true, nil
	case subMsg:
		inner, ok := p.subs.accept(m)
		if !ok {
			return false, nil
		}
		return p.process(inner)
	case suspendMsg:
		p.suspend()
		close(m.ack)
		return false, nil
	case resumeMsg:
		err := p.resume()
		close(m.ack)
		return false, err
	case repaintMsg:
		if p.renderer != nil && p.mode == ModeInteractive {
			p.renderer.Repaint()
		}
		return false, nil
	case CancelMsg:
		if p.mode == ModeAccessible {
			p.cancelled = true
			return true, nil
		}
	}

	if p.tracer != nil {
		p.tracer.TraceMessage(msg)
	}
	cmd := p.model.Update(msg)
	if IsQuit(cmd) {
		p.render()
		return true, nil
	}
	p.exec.start(cmd)
	p.reconcile()
	p.render()

	if p.mode == ModeAccessible {
		if acc, ok := p.model.(Accessible); ok && acc.IsAccessibleComplete() {
			return true, nil
		}
	}
	return false, nil
}

func (p *Program) reconcile() {
	if s, ok := p.model.(Subscriber); ok {
		p.subs.reconcile(s.Subscriptions())
	}
}

func (p *Program) render() {
	view := p.model.View()
	if p.tracer != nil {
		p.tracer.TraceFrame(view)
	}
	if p.mode == ModeInteractive {
		p.renderer.Write(view)
		return
	}
	acc, ok := p.model.(Accessible)
	if !ok || acc.IsAccessibleComplete() {
		p.lines.Write(view)
		return
	}
	if p.promptPending {
		p.lines.Print(acc.AccessiblePrompt())
		p.promptPending = false
	}
}

// deliver hands a command result to the loop. It gives up once pending
// work has been abandoned.
func (p *Program) deliver(msg Msg) bool {
	select {
	case p.msgs <- msg:
		return true
	case <-p.exec.effects.Done():
		return false
	}
}

func (p *Program) deliverFrom(ctx context.Context, msg Msg) bool {
	select {
	case p.msgs <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *Program) startInput() {
	src := p.source
	if src == nil {
		src = p.defaultSource()
	}
	ctx, cancel := context.WithCancel(p.ctx)
	stopped := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		defer close(stopped)
		err := src.Run(ctx, func(ev event.Event) bool {
			select {
			case p.events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if ctx.Err() == nil {
			done <- err
		}
	}()
	p.srcCancel, p.srcStopped, p.inputDone = cancel, stopped, done
}

func (p *Program) stopInput() {
	if p.srcCancel == nil {
		return
	}
	p.srcCancel()
	select {
	case <-p.srcStopped:
	case <-time.After(inputStopWait):
		p.log.Warn("input reader did not stop")
	}
	p.srcCancel, p.srcStopped, p.inputDone = nil, nil, nil
}

func (p *Program) defaultSource() input.Source {
	if p.mode == ModeAccessible {
		return input.NewLines(p.input)
	}
	sources := []input.Source{input.NewRaw(p.input)}
	if p.term.OutputIsTerminal() || p.term.InputIsTerminal() {
		sources = append(sources, input.NewResize(p.term.Size))
	}
	if p.tickInterval > 0 {
		sources = append(sources, input.Ticker{Interval: p.tickInterval})
	}
	return input.Merge(sources...)
}

// suspend hands the terminal back: no raw mode, no input reader, no
// drawing until resume. In accessible mode only the line reader stops, so
// a child process started by Exec gets every line typed meanwhile.
func (p *Program) suspend() {
	if p.State() != StateRunning {
		return
	}
	p.stopInput()
	if p.mode == ModeAccessible {
		p.setState(StateSuspended)
		return
	}
	p.renderer.Pause()
	if err := p.term.Restore(); err != nil {
		p.log.Error("restore terminal", "error", err)
	}
	p.setState(StateSuspended)
}

func (p *Program) resume() error {
	if p.State() != StateSuspended {
		return nil
	}
	if p.mode == ModeAccessible {
		p.startInput()
		p.setState(StateRunning)
		return nil
	}
	if err := p.term.MakeRaw(); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	p.renderer.Resume()
	p.startInput()
	p.setState(StateRunning)
	p.render()
	return nil
}

// shutdown stops producers, waits a bounded time for pending commands and
// releases the terminal.
func (p *Program) shutdown(loopErr error) (Model, error) {
	p.setState(StateQuitting)
	p.subs.stopAll()
	p.stopInput()
	p.exec.stopTimers()
	if !errors.Is(loopErr, ErrKilled) {
		p.drain()
	}
	p.exec.abandon()

	err := loopErr
	if p.mode == ModeInteractive && p.renderer != nil {
		if rerr := p.renderer.Stop(); rerr != nil {
			err = withRenderErr(err, rerr)
		}
	}
	if p.mode == ModeAccessible && p.lines != nil {
		if lerr := p.lines.Err(); lerr != nil {
			err = withRenderErr(err, lerr)
		}
	}
	if p.tracer != nil {
		p.tracer.TraceExit(err)
	}
	if err != nil {
		p.log.Error("program stopped", "error", err)
		return p.model, err
	}
	p.log.Info("program stopped", "cancelled", p.cancelled)
	if p.cancelled {
		return nil, nil
	}
	return p.model, nil
}

// withRenderErr adds a render failure to err unless err already reports
// one.
func withRenderErr(err, renderErr error) error {
	switch {
	case err == nil:
		return fmt.Errorf("%w: %w", ErrRender, renderErr)
	case errors.Is(err, ErrRender):
		return err
	}
	return errors.Join(err, fmt.Errorf("%w: %w", ErrRender, renderErr))
}

// drain waits up to the shutdown timeout for pending commands, discarding
// whatever they deliver.
func (p *Program) drain() {
	done := make(chan struct{})
	go func() {
		p.exec.wg.Wait()
		close(done)
	}()
	t := time.NewTimer(p.shutdownTimeout)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			p.log.Warn("abandoning pending commands", "timeout", p.shutdownTimeout)
			return
		case <-p.killc:
			return
		case msg := <-p.msgs:
			switch m := msg.(type) {
			case suspendMsg:
				close(m.ack)
			case resumeMsg:
				close(m.ack)
			}
		}
	}
}

func (p *Program) handleSignals() func() {
	if !p.signals {
		return func() {}
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case s := <-sig:
				var msg Msg = QuitMsg{}
				if s == syscall.SIGINT && p.mode == ModeAccessible {
					msg = CancelMsg{}
				}
				select {
				case p.msgs <- msg:
				case <-done:
					return
				}
			}
		}
	}()
	return func() {
		signal.Stop(sig)
		close(done)
	}
}
