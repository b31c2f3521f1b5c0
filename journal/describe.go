package journal

import (
	"fmt"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// describe renders a message for the transcript.
func describe(msg core.Msg) string {
	switch m := msg.(type) {
	case event.Key:
		return "key " + m.String()
	case event.Mouse:
		return fmt.Sprintf("mouse %d,%d button=%d action=%d", m.X, m.Y, m.Button, m.Action)
	case event.Resize:
		return fmt.Sprintf("resize %dx%d", m.Width, m.Height)
	case event.Paste:
		return fmt.Sprintf("paste %q", m.Text)
	case error:
		return "error " + m.Error()
	case fmt.Stringer:
		return fmt.Sprintf("%T %s", msg, m.String())
	}
	return fmt.Sprintf("%T %+v", msg, msg)
}
