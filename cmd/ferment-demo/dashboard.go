package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
	"github.com/inferadb/ferment/widgets"
)

const maxEvents = 50

var dashboardKeys = struct {
	Help  key.Binding
	Pause key.Binding
	Quit  key.Binding
}{
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Pause: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
}

type (
	toggleHelpMsg  struct{}
	togglePauseMsg struct{}
	uptimeMsg      time.Time
)

// dashboard shows the runtime from the inside: tabs over the session
// state, the messages it has seen and a help overlay.
type dashboard struct {
	layout  *widgets.AppLayout
	env     env
	started time.Time
	uptime  time.Duration
	paused  bool
	help    bool
	events  []string
}

func newDashboard(e env) core.Model {
	l := widgets.NewAppLayout(80, 24)
	l.Title = "ferment"
	l.Tabs = widgets.NewTabBuilder().
		Tab("overview", "Overview").
		Tab("events", "Events").
		Tab("about", "About").
		Build()
	status := widgets.Online()
	l.Status = &status
	l.Hints = widgets.StyledHints(dashboardKeys.Help, dashboardKeys.Pause, dashboardKeys.Quit)
	return &dashboard{layout: l, env: e, started: time.Now()}
}

func (d *dashboard) Init() core.Cmd {
	if d.env.mode == core.ModeAccessible {
		return nil
	}
	return d.tick()
}

func (d *dashboard) tick() core.Cmd {
	return core.Tick(time.Second, func(t time.Time) core.Msg { return uptimeMsg(t) })
}

func (d *dashboard) Update(msg core.Msg) core.Cmd {
	d.record(msg)
	switch m := msg.(type) {
	case uptimeMsg:
		if !d.paused {
			d.uptime = time.Time(m).Sub(d.started).Truncate(time.Second)
		}
		return d.tick()
	case toggleHelpMsg:
		d.help = !d.help
	case togglePauseMsg:
		d.paused = !d.paused
		status := widgets.Online()
		if d.paused {
			status = widgets.Paused()
		}
		d.layout.Status = &status
	default:
		return d.layout.Update(msg)
	}
	return nil
}

func (d *dashboard) record(msg core.Msg) {
	if _, ok := msg.(uptimeMsg); ok {
		return
	}
	d.events = append(d.events, fmt.Sprintf("%s  %T", time.Now().Format("15:04:05"), msg))
	if len(d.events) > maxEvents {
		d.events = d.events[len(d.events)-maxEvents:]
	}
}

func (d *dashboard) body() widgets.Widget {
	switch d.layout.Tabs.Selected() {
	case "events":
		return widgets.Box{Title: "Messages", Content: strings.Join(d.recent(), "\n"), Focused: true}
	case "about":
		return widgets.Text(aboutText)
	}
	w, h := d.layout.Size()
	session := fmt.Sprintf("mode     %s\nsize     %dx%d\nuptime   %s\npaused   %t", d.env.mode, w, h, d.uptime, d.paused)
	last := d.recent()
	if len(last) > 5 {
		last = last[len(last)-5:]
	}
	return widgets.HStack{
		Gap:    1,
		Ratios: []float64{1, 2},
		Widgets: []widgets.Widget{
			widgets.Box{Title: "Session", Content: session},
			widgets.Box{Title: "Recent", Content: strings.Join(last, "\n")},
		},
	}
}

// recent returns the newest events that fit the content area.
func (d *dashboard) recent() []string {
	n := max(0, d.layout.ContentHeight()-2)
	if len(d.events) <= n {
		return d.events
	}
	return d.events[len(d.events)-n:]
}

func (d *dashboard) View() string {
	w, h := d.layout.Size()
	d.layout.Content = d.body().Render(w, d.layout.ContentHeight())
	view := d.layout.View()
	if d.help {
		view = widgets.Overlay(view, helpText, w, h)
	}
	return view
}

func (d *dashboard) HandleEvent(ev event.Event) core.Msg {
	if k, ok := ev.(event.Key); ok {
		switch {
		case key.Matches(k, dashboardKeys.Help):
			return toggleHelpMsg{}
		case d.help && k.Type == event.KeyEsc:
			return toggleHelpMsg{}
		case key.Matches(k, dashboardKeys.Pause):
			return togglePauseMsg{}
		}
	}
	return d.layout.HandleEvent(ev)
}

const helpText = `o e a      switch tabs
tab        next tab
shift+tab  previous tab
p          pause the uptime clock
?          close this help
q          quit`

const aboutText = `ferment drives this screen: every key, resize and timer
tick becomes a message, the model updates, and the renderer
redraws only the lines that changed.

Run with --journal to record the session, then
--inspect to list recordings.`
