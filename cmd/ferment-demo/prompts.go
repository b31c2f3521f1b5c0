package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
	"github.com/inferadb/ferment/teabridge"
	"github.com/inferadb/ferment/widgets"
)

func newConfirm(env) core.Model {
	c := widgets.NewConfirm("Deploy to production?", false)
	c.QuitOnAnswer = true
	return c
}

func reportConfirm(m core.Model, w io.Writer) {
	if c := m.(*widgets.Confirm); c.Answered() {
		fmt.Fprintf(w, "deploy: %t\n", c.Value())
	}
}

func newSelect(env) core.Model {
	s := widgets.NewSelect("Pick a region", "us-east-1", "us-west-2", "eu-central-1", "ap-southeast-2")
	s.QuitOnAnswer = true
	return s
}

func reportSelect(m core.Model, w io.Writer) {
	s := m.(*widgets.Select)
	if i := s.Chosen(); i >= 0 {
		fmt.Fprintf(w, "region: %s\n", s.Options[i])
	}
}

// nameInput is a plain Bubble Tea model, run unchanged through teabridge.
type nameInput struct {
	input textinput.Model
	done  bool
}

func newNameInput(env) core.Model {
	in := textinput.New()
	in.Prompt = "Your name: "
	in.Placeholder = "Ada Lovelace"
	in.CharLimit = 64
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Focus()
	return teabridge.New(&nameInput{input: in})
}

func (n *nameInput) Init() tea.Cmd { return textinput.Blink }

func (n *nameInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			n.done = true
			return n, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			return n, tea.Quit
		}
	}
	var cmd tea.Cmd
	n.input, cmd = n.input.Update(msg)
	return n, cmd
}

func (n *nameInput) View() string {
	if n.done {
		return "Hello, " + n.input.Value() + "!"
	}
	return n.input.View() + "\n\nenter to submit, esc to cancel"
}

func reportNameInput(m core.Model, w io.Writer) {
	if n := m.(*teabridge.Host).Model().(*nameInput); n.done {
		fmt.Fprintf(w, "name: %s\n", n.input.Value())
	}
}

type (
	stepDoneMsg    string
	buildFailedMsg struct{ err error }
)

var buildSteps = []struct {
	name string
	took time.Duration
}{
	{"resolving modules", 600 * time.Millisecond},
	{"compiling", 1200 * time.Millisecond},
	{"linking", 500 * time.Millisecond},
	{"running tests", 900 * time.Millisecond},
}

// build runs a fake pipeline one step at a time under a spinner.
type build struct {
	spinner *widgets.Spinner
	done    []string
	err     error
}

func newBuild(env) core.Model {
	return &build{spinner: widgets.NewSpinner("build", buildSteps[0].name)}
}

func (b *build) Init() core.Cmd {
	cmds := make([]core.Cmd, 0, len(buildSteps)+1)
	for _, s := range buildSteps {
		cmds = append(cmds, step(s.name, s.took))
	}
	return core.Sequence(append(cmds, core.Quit())...)
}

func step(name string, took time.Duration) core.Cmd {
	return core.Try(func(ctx context.Context) (core.Msg, error) {
		select {
		case <-time.After(took):
			return stepDoneMsg(name), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, func(err error) core.Msg {
		return buildFailedMsg{err: fmt.Errorf("%s: %w", name, err)}
	})
}

func (b *build) Update(msg core.Msg) core.Cmd {
	switch m := msg.(type) {
	case stepDoneMsg:
		b.done = append(b.done, string(m))
		if len(b.done) < len(buildSteps) {
			b.spinner.Label = buildSteps[len(b.done)].name
		} else {
			b.spinner.Stop()
			b.spinner.Label = ""
		}
	case buildFailedMsg:
		b.err = m.err
		b.spinner.Stop()
		return core.Quit()
	case widgets.SpinnerTickMsg:
		return b.spinner.Update(m)
	}
	return nil
}

func (b *build) Subscriptions() []core.Sub { return b.spinner.Subscriptions() }

func (b *build) View() string {
	var s strings.Builder
	for _, name := range b.done {
		s.WriteString("✓ " + name + "\n")
	}
	if b.err != nil {
		s.WriteString("✗ " + b.err.Error())
		return s.String()
	}
	s.WriteString(b.spinner.View())
	return strings.TrimRight(s.String(), "\n")
}

func (b *build) HandleEvent(ev event.Event) core.Msg {
	if k, ok := ev.(event.Key); ok && (k.String() == "ctrl+c" || k.String() == "q") {
		return buildFailedMsg{err: errors.New("cancelled")}
	}
	return nil
}

func reportBuild(m core.Model, w io.Writer) {
	b := m.(*build)
	if b.err != nil {
		fmt.Fprintf(w, "build failed: %v\n", b.err)
		return
	}
	fmt.Fprintf(w, "build finished: %d steps\n", len(b.done))
}
