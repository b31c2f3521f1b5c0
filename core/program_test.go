package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inferadb/ferment/event"
	"github.com/inferadb/ferment/input"
)

func runWithTimeout(t *testing.T, p *Program) (Model, error) {
	t.Helper()
	type result struct {
		m   Model
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, err := p.Run()
		done <- result{m, err}
	}()
	select {
	case r := <-done:
		return r.m, r.err
	case <-time.After(5 * time.Second):
		p.Kill()
		t.Fatal("program did not stop")
		return nil, nil
	}
}

func TestCounterKeys(t *testing.T) {
	t.Parallel()
	var out syncBuffer
	p := NewProgram(&counter{},
		WithInput(strings.NewReader("++-q")),
		WithOutput(&out),
		WithoutSignalHandler(),
	)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	require.Equal(t, 1, m.(*counter).n)
	require.Contains(t, out.String(), "Count: 1")
	require.Equal(t, StateTerminated, p.State())
}

func TestRunTwice(t *testing.T) {
	t.Parallel()
	p := NewProgram(&counter{},
		WithInput(strings.NewReader("q")),
		WithOutput(&syncBuffer{}),
		WithoutSignalHandler(),
	)
	_, err := runWithTimeout(t, p)
	require.NoError(t, err)
	_, err = p.Run()
	require.ErrorIs(t, err, ErrProgramDone)
}

func TestInputEventsWinTies(t *testing.T) {
	p := NewProgram(&counter{})
	go func() { p.events <- event.Key{Type: event.KeyRunes, Runes: []rune{'+'}} }()
	go func() { p.msgs <- decMsg{} }()
	// Let both senders block on their channels.
	time.Sleep(50 * time.Millisecond)

	first, err := p.next()
	require.NoError(t, err)
	require.Equal(t, incMsg{}, first)
	second, err := p.next()
	require.NoError(t, err)
	require.Equal(t, decMsg{}, second)
}

func TestSendAndQuitFromOutside(t *testing.T) {
	t.Parallel()
	r := newFakeRenderer()
	p := NewProgram(&counter{}, quiet(
		WithRenderer(r),
		WithEventSource(blockingSource()),
	)...)
	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()
	p.Send(incMsg{})
	p.Send(incMsg{})
	p.Quit()
	require.NoError(t, <-done)
	require.Equal(t, "Count: 2", r.LastView())
	require.Equal(t, "start", r.Calls()[0])
	require.Equal(t, "stop", r.Calls()[len(r.Calls())-1])

	// Sending after Run returned must not block.
	p.Send(incMsg{})
}

func TestKill(t *testing.T) {
	t.Parallel()
	p := NewProgram(&counter{}, quiet(
		WithRenderer(newFakeRenderer()),
		WithEventSource(blockingSource()),
	)...)
	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()
	require.Eventually(t, func() bool { return p.State() == StateRunning }, time.Second, time.Millisecond)
	p.Kill()
	require.ErrorIs(t, <-done, ErrKilled)
}

func TestContextCancelStopsProgram(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	p := NewProgram(&counter{}, quiet(
		WithContext(ctx),
		WithRenderer(newFakeRenderer()),
		WithEventSource(blockingSource()),
	)...)
	cancel()
	_, err := runWithTimeout(t, p)
	require.ErrorIs(t, err, ErrKilled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRenderFailureEndsRun(t *testing.T) {
	t.Parallel()
	r := newFakeRenderer()
	r.errs <- errors.New("broken pipe")
	p := NewProgram(&counter{}, quiet(
		WithRenderer(r),
		WithEventSource(blockingSource()),
	)...)
	_, err := runWithTimeout(t, p)
	require.ErrorIs(t, err, ErrRender)
	require.Equal(t, 1, ExitCode(err))
}

func TestNonTerminalFileInput(t *testing.T) {
	t.Parallel()
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	defer f.Close()

	p := NewProgram(&counter{}, WithInput(f), WithOutput(&syncBuffer{}), WithoutSignalHandler())
	_, err = p.Run()
	require.ErrorIs(t, err, ErrSetup)
	require.ErrorIs(t, err, ErrNoTTY)
	require.Equal(t, 2, ExitCode(err))
}

type slowQuit struct{ counter }

func (m *slowQuit) Init() Cmd {
	return Batch(
		Single(func(ctx context.Context) Msg {
			<-ctx.Done()
			return nil
		}),
		Send(QuitMsg{}),
	)
}

func TestShutdownAbandonsSlowCommands(t *testing.T) {
	t.Parallel()
	p := NewProgram(&slowQuit{}, quiet(
		WithRenderer(newFakeRenderer()),
		WithEventSource(blockingSource()),
		WithShutdownTimeout(50*time.Millisecond),
	)...)
	start := time.Now()
	_, err := runWithTimeout(t, p)
	require.NoError(t, err)
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	require.Less(t, elapsed, 2*time.Second)
}

type ticking struct {
	counter
	ticks int
}

type tickedMsg struct{}

func (m *ticking) Update(msg Msg) Cmd {
	if _, ok := msg.(tickedMsg); ok {
		m.ticks++
		if m.ticks == 3 {
			return Quit()
		}
	}
	return nil
}

func (m *ticking) Subscriptions() []Sub {
	return []Sub{Every("tick", 2*time.Millisecond, func(time.Time) Msg { return tickedMsg{} })}
}

func TestSubscriptionsDriveUpdates(t *testing.T) {
	t.Parallel()
	p := NewProgram(&ticking{}, quiet(
		WithRenderer(newFakeRenderer()),
		WithEventSource(blockingSource()),
	)...)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	require.Equal(t, 3, m.(*ticking).ticks)
}

type execDone struct{ err error }

type runsChild struct {
	counter
	cmd    *exec.Cmd
	result error
	ran    bool
}

func (m *runsChild) Init() Cmd {
	return Exec(m.cmd, func(err error) Msg { return execDone{err} })
}

func (m *runsChild) Update(msg Msg) Cmd {
	if d, ok := msg.(execDone); ok {
		m.ran, m.result = true, d.err
		return Quit()
	}
	return nil
}

func TestExecSuspendsAndResumes(t *testing.T) {
	t.Parallel()
	// The test binary with no matching tests exits 0 without output.
	child := exec.Command(os.Args[0], "-test.run=^$")
	child.Stdout, child.Stderr = &syncBuffer{}, &syncBuffer{}

	r := newFakeRenderer()
	p := NewProgram(&runsChild{cmd: child}, quiet(
		WithRenderer(r),
		WithEventSource(blockingSource()),
	)...)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	require.True(t, m.(*runsChild).ran)
	require.NoError(t, m.(*runsChild).result)
	require.Equal(t, []string{"start", "pause", "resume", "stop"}, r.Calls())
}

type confirmModel struct {
	answered bool
	yes      bool
}

type answerMsg bool

func (m *confirmModel) Init() Cmd { return nil }

func (m *confirmModel) Update(msg Msg) Cmd {
	if a, ok := msg.(answerMsg); ok {
		m.answered, m.yes = true, bool(a)
	}
	return nil
}

func (m *confirmModel) View() string {
	if !m.answered {
		return "\x1b[1mContinue?\x1b[0m"
	}
	if m.yes {
		return "Answer: yes"
	}
	return "Answer: no"
}

func (m *confirmModel) HandleEvent(event.Event) Msg { return nil }

func (m *confirmModel) AccessiblePrompt() string { return "Continue? [y/n]" }

func (m *confirmModel) ParseAccessibleInput(line string) Msg {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return answerMsg(true)
	case "n", "no":
		return answerMsg(false)
	}
	return nil
}

func (m *confirmModel) IsAccessibleComplete() bool { return m.answered }

func TestAccessiblePromptLoop(t *testing.T) {
	t.Parallel()
	var out syncBuffer
	p := NewProgram(&confirmModel{},
		WithMode(ModeAccessible),
		WithInput(strings.NewReader("maybe\ny\n")),
		WithOutput(&out),
		WithoutSignalHandler(),
	)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	require.True(t, m.(*confirmModel).yes)
	require.Equal(t,
		"Continue? [y/n]\n"+invalidInputPrompt+"\nContinue? [y/n]\nAnswer: yes\n",
		out.String())
	require.NotContains(t, out.String(), "\x1b")
}

func TestAccessibleEOFCancels(t *testing.T) {
	t.Parallel()
	p := NewProgram(&confirmModel{},
		WithMode(ModeAccessible),
		WithInput(strings.NewReader("")),
		WithOutput(&syncBuffer{}),
		WithoutSignalHandler(),
	)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestAccessibleCancelMsg(t *testing.T) {
	t.Parallel()
	p := NewProgram(&confirmModel{}, quiet(
		WithMode(ModeAccessible),
		WithEventSource(blockingSource()),
	)...)
	done := make(chan error, 1)
	var m Model
	go func() {
		var err error
		m, err = p.Run()
		done <- err
	}()
	p.Send(CancelMsg{})
	require.NoError(t, <-done)
	require.Nil(t, m)
}

func TestAccessiblePlainModelSeesLines(t *testing.T) {
	t.Parallel()
	var out syncBuffer
	p := NewProgram(&pasteCounter{},
		WithMode(ModeAccessible),
		WithInput(strings.NewReader("+\n+\nq\n")),
		WithOutput(&out),
		WithoutSignalHandler(),
	)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	require.Equal(t, 2, m.(*pasteCounter).n)
	require.True(t, containsAll(out.String(), "Count: 0\n", "Count: 1\n", "Count: 2\n"))
}

// pasteCounter treats pasted text as typed keys.
type pasteCounter struct{ counter }

func (m *pasteCounter) HandleEvent(ev event.Event) Msg {
	if p, ok := ev.(event.Paste); ok {
		return m.counter.HandleEvent(event.Key{Type: event.KeyRunes, Runes: []rune(p.Text)})
	}
	return nil
}

func TestReplayIsDeterministic(t *testing.T) {
	msgs := []Msg{incMsg{}, incMsg{}, decMsg{}, incMsg{}}
	views := func() []string {
		c := &counter{}
		var out []string
		for _, m := range msgs {
			c.Update(m)
			out = append(out, c.View())
		}
		return out
	}
	require.Equal(t, views(), views())
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 2, ExitCode(errors.Join(ErrSetup, ErrNoTTY)))
	require.Equal(t, 1, ExitCode(ErrRender))
	require.Equal(t, 1, ExitCode(ErrKilled))
}

func TestExitErrorCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &ExitError{Code: 3, Err: errors.New("usage")})
	require.Equal(t, 3, ExitCode(err))
	require.EqualError(t, err, "wrapped: usage")
}

type brokenOutput struct{}

func (brokenOutput) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestAccessibleWriteFailureEndsRun(t *testing.T) {
	t.Parallel()
	// The reader never sees a line, so only the failed write can end the run.
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	p := NewProgram(&confirmModel{},
		WithMode(ModeAccessible),
		WithInput(pr),
		WithOutput(brokenOutput{}),
		WithoutSignalHandler(),
	)
	_, err := runWithTimeout(t, p)
	require.ErrorIs(t, err, ErrRender)
	require.ErrorIs(t, err, io.ErrClosedPipe)
	require.Equal(t, 1, ExitCode(err))
}

func TestWithRenderErr(t *testing.T) {
	t.Parallel()
	broken := errors.New("broken pipe")
	tests := []struct {
		name string
		err  error
		want []error
	}{
		{name: "clean exit", err: nil, want: []error{ErrRender, broken}},
		{name: "killed", err: ErrKilled, want: []error{ErrKilled, ErrRender, broken}},
		{name: "cancelled", err: context.Canceled, want: []error{context.Canceled, ErrRender, broken}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withRenderErr(tt.err, broken)
			for _, want := range tt.want {
				require.ErrorIs(t, got, want)
			}
			require.Equal(t, 1, ExitCode(got))
		})
	}

	first := fmt.Errorf("%w: %w", ErrRender, broken)
	require.Same(t, first, withRenderErr(first, errors.New("later")))
}

func TestResizeEventReachesRenderer(t *testing.T) {
	t.Parallel()
	r := newFakeRenderer()
	src := input.SourceFunc(func(ctx context.Context, emit input.Emit) error {
		emit(event.Resize{Width: 100, Height: 30})
		emit(event.Key{Type: event.KeyRunes, Runes: []rune{'q'}})
		<-ctx.Done()
		return nil
	})
	p := NewProgram(&counter{}, quiet(WithRenderer(r), WithEventSource(src))...)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	require.Contains(t, r.Calls(), "resize 100x30")
	require.Contains(t, m.(*counter).seen, Msg(quitKeyMsg{}))
}

type tickAtMsg struct{ at time.Time }

type ticksOnce struct {
	counter
	started time.Time
	fired   time.Time
}

func (m *ticksOnce) Init() Cmd {
	m.started = time.Now()
	return Tick(100*time.Millisecond, func(at time.Time) Msg { return tickAtMsg{at} })
}

func (m *ticksOnce) Update(msg Msg) Cmd {
	if t, ok := msg.(tickAtMsg); ok {
		m.fired = t.at
		return Quit()
	}
	return m.counter.Update(msg)
}

func TestTickFromInitFiresOnce(t *testing.T) {
	t.Parallel()
	p := NewProgram(&ticksOnce{}, quiet(
		WithRenderer(newFakeRenderer()),
		WithEventSource(blockingSource()),
	)...)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	tm := m.(*ticksOnce)
	require.False(t, tm.fired.IsZero())
	require.GreaterOrEqual(t, tm.fired.Sub(tm.started), 100*time.Millisecond)
}

type confirmsAfterChild struct {
	confirmModel
	cmd    *exec.Cmd
	ran    bool
	result error
}

func (m *confirmsAfterChild) Init() Cmd {
	return Exec(m.cmd, func(err error) Msg { return execDone{err} })
}

func (m *confirmsAfterChild) Update(msg Msg) Cmd {
	if d, ok := msg.(execDone); ok {
		m.ran, m.result = true, d.err
		return nil
	}
	return m.confirmModel.Update(msg)
}

func (m *confirmsAfterChild) IsAccessibleComplete() bool { return m.ran && m.answered }

func TestAccessibleExecRestartsLineReader(t *testing.T) {
	t.Parallel()
	child := exec.Command(os.Args[0], "-test.run=^$")

	var runs atomic.Int32
	src := input.SourceFunc(func(ctx context.Context, emit input.Emit) error {
		// The first reader is stopped for the child; only the second answers.
		if runs.Add(1) == 2 {
			emit(event.Line{Text: "y"})
		}
		<-ctx.Done()
		return nil
	})
	model := &confirmsAfterChild{cmd: child}
	p := NewProgram(model, quiet(
		WithMode(ModeAccessible),
		WithEventSource(src),
	)...)
	m, err := runWithTimeout(t, p)
	require.NoError(t, err)
	got := m.(*confirmsAfterChild)
	require.True(t, got.ran)
	require.NoError(t, got.result)
	require.True(t, got.yes)
	require.Equal(t, int32(2), runs.Load())
}
