package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
	"github.com/inferadb/ferment/widgets"
)

type counterKeys struct {
	Inc    key.Binding
	Dec    key.Binding
	Reset  key.Binding
	Editor key.Binding
	Quit   key.Binding
}

var keys = counterKeys{
	Inc:    key.NewBinding(key.WithKeys("+", "up", "k"), key.WithHelp("+", "inc")),
	Dec:    key.NewBinding(key.WithKeys("-", "down", "j"), key.WithHelp("-", "dec")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Editor: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "editor")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type (
	incMsg    struct{}
	decMsg    struct{}
	addMsg    int
	resetMsg  struct{}
	editorMsg struct{}
	quitMsg   struct{}
	clockMsg  time.Time
	flashMsg  string
	// unflashMsg clears the flash line if it still shows text.
	unflashMsg string
)

// counter is the smallest useful model: a number, a clock subscription and
// a couple of commands.
type counter struct {
	count   int
	started time.Time
	now     time.Time
	flash   string
}

func newCounter(env) core.Model {
	now := time.Now()
	return &counter{started: now, now: now}
}

func (c *counter) Init() core.Cmd { return nil }

func (c *counter) Update(msg core.Msg) core.Cmd {
	switch m := msg.(type) {
	case incMsg:
		c.count++
	case decMsg:
		c.count--
	case resetMsg:
		c.count = 0
		return c.say("reset")
	case clockMsg:
		c.now = time.Time(m)
	case editorMsg:
		editor := os.Getenv("EDITOR")
		if editor == "" {
			return c.say("$EDITOR is not set")
		}
		return core.Exec(exec.Command(editor), func(err error) core.Msg {
			if err != nil {
				return flashMsg("editor: " + err.Error())
			}
			return flashMsg("back from " + editor)
		})
	case addMsg:
		c.count += int(m)
	case flashMsg:
		return c.say(string(m))
	case unflashMsg:
		if c.flash == string(m) {
			c.flash = ""
		}
	case quitMsg:
		return core.Quit()
	}
	return nil
}

// say shows text for a few seconds.
func (c *counter) say(text string) core.Cmd {
	c.flash = text
	return core.Tick(3*time.Second, func(time.Time) core.Msg { return unflashMsg(text) })
}

// Subscriptions keeps a one second clock running. It counts as animation,
// so accessible and reduced-motion sessions do not redraw every second.
func (c *counter) Subscriptions() []core.Sub {
	return []core.Sub{
		core.Every("clock", time.Second, func(t time.Time) core.Msg { return clockMsg(t) }).Animated(),
	}
}

func (c *counter) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Count: %d\n\n", c.count)
	fmt.Fprintf(&b, "up %s", c.now.Sub(c.started).Truncate(time.Second))
	if c.flash != "" {
		b.WriteString("  " + c.flash)
	}
	b.WriteString("\n")
	b.WriteString(widgets.StyledHints(keys.Inc, keys.Dec, keys.Reset, keys.Editor, keys.Quit))
	return b.String()
}

// HandleEvent maps keys, and in accessible mode whole lines such as "++-"
// or "q", to counter messages.
func (c *counter) HandleEvent(ev event.Event) core.Msg {
	switch e := ev.(type) {
	case event.Key:
		switch {
		case key.Matches(e, keys.Inc):
			return incMsg{}
		case key.Matches(e, keys.Dec):
			return decMsg{}
		case key.Matches(e, keys.Reset):
			return resetMsg{}
		case key.Matches(e, keys.Editor):
			return editorMsg{}
		case key.Matches(e, keys.Quit):
			return quitMsg{}
		}
	case event.Paste:
		return pasted(e.Text)
	}
	return nil
}

func pasted(text string) core.Msg {
	text = strings.TrimSpace(text)
	if text == "q" || text == "quit" {
		return quitMsg{}
	}
	n := strings.Count(text, "+") - strings.Count(text, "-")
	if n == 0 {
		return nil
	}
	return addMsg(n)
}
