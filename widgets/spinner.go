package widgets

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// SpinnerTickMsg advances the spinner with the matching ID.
type SpinnerTickMsg struct {
	ID core.SubID
}

// Spinner is an animated activity indicator. Its frames are driven by an
// animated subscription, so under reduced motion or in accessible mode it
// shows its first frame and never ticks.
type Spinner struct {
	ID    core.SubID
	Kind  spinner.Spinner
	Label string
	Style lipgloss.Style

	frame    int
	spinning bool
}

func NewSpinner(id core.SubID, label string) *Spinner {
	return &Spinner{
		ID:       id,
		Kind:     spinner.MiniDot,
		Label:    label,
		Style:    lipgloss.NewStyle().Foreground(colorAccent),
		spinning: true,
	}
}

func (s *Spinner) Start()         { s.spinning = true }
func (s *Spinner) Stop()          { s.spinning = false }
func (s *Spinner) Spinning() bool { return s.spinning }
func (s *Spinner) Frame() int     { return s.frame }

func (s *Spinner) Subscriptions() []core.Sub {
	if !s.spinning || len(s.Kind.Frames) == 0 {
		return nil
	}
	fps := s.Kind.FPS
	if fps <= 0 {
		fps = time.Second / 10
	}
	id := s.ID
	return []core.Sub{
		core.Every(id, fps, func(time.Time) core.Msg { return SpinnerTickMsg{ID: id} }).Animated(),
	}
}

func (s *Spinner) Init() core.Cmd { return nil }

func (s *Spinner) Update(msg core.Msg) core.Cmd {
	if m, ok := msg.(SpinnerTickMsg); ok && m.ID == s.ID && s.spinning && len(s.Kind.Frames) > 0 {
		s.frame = (s.frame + 1) % len(s.Kind.Frames)
	}
	return nil
}

func (s *Spinner) View() string {
	if !s.spinning || len(s.Kind.Frames) == 0 {
		return s.Label
	}
	glyph := s.Style.Render(s.Kind.Frames[s.frame%len(s.Kind.Frames)])
	if s.Label == "" {
		return glyph
	}
	return glyph + " " + s.Label
}

func (s *Spinner) HandleEvent(event.Event) core.Msg { return nil }
