package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/inferadb/ferment/event"
	"github.com/inferadb/ferment/input"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type incMsg struct{}

type decMsg struct{}

type quitKeyMsg struct{}

type counter struct {
	n    int
	seen []Msg
}

func (c *counter) Init() Cmd { return nil }

func (c *counter) Update(msg Msg) Cmd {
	c.seen = append(c.seen, msg)
	switch msg.(type) {
	case incMsg:
		c.n++
	case decMsg:
		c.n--
	case quitKeyMsg:
		return Quit()
	}
	return nil
}

func (c *counter) View() string { return fmt.Sprintf("Count: %d", c.n) }

func (c *counter) HandleEvent(ev event.Event) Msg {
	k, ok := ev.(event.Key)
	if !ok {
		return nil
	}
	switch k.String() {
	case "+":
		return incMsg{}
	case "-":
		return decMsg{}
	case "q":
		return quitKeyMsg{}
	}
	return nil
}

// quiet keeps test programs away from the real stdio and signals.
func quiet(opts ...ProgramOption) []ProgramOption {
	return append([]ProgramOption{
		WithInput(strings.NewReader("")),
		WithOutput(&syncBuffer{}),
		WithoutSignalHandler(),
	}, opts...)
}

// blockingSource never produces events and stops when asked.
func blockingSource() input.Source {
	return input.SourceFunc(func(ctx context.Context, _ input.Emit) error {
		<-ctx.Done()
		return nil
	})
}

type fakeRenderer struct {
	mu    sync.Mutex
	calls []string
	views []string
	errs  chan error
}

func newFakeRenderer() *fakeRenderer { return &fakeRenderer{errs: make(chan error, 1)} }

func (r *fakeRenderer) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *fakeRenderer) Start() error { r.record("start"); return nil }

func (r *fakeRenderer) Write(view string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
}

func (r *fakeRenderer) Resize(width, height int) { r.record(fmt.Sprintf("resize %dx%d", width, height)) }
func (r *fakeRenderer) Repaint()                 { r.record("repaint") }
func (r *fakeRenderer) Pause()                   { r.record("pause") }
func (r *fakeRenderer) Resume()                  { r.record("resume") }
func (r *fakeRenderer) Stop() error              { r.record("stop"); return nil }
func (r *fakeRenderer) Errors() <-chan error     { return r.errs }

func (r *fakeRenderer) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *fakeRenderer) LastView() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return ""
	}
	return r.views[len(r.views)-1]
}

type collected struct {
	mu   sync.Mutex
	msgs []Msg
}

func (c *collected) deliver(msg Msg) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return true
}

func (c *collected) all() []Msg {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Msg(nil), c.msgs...)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
