// Package render draws views to the terminal. Differential keeps the last
// committed frame and writes only changed lines at a bounded frame rate;
// Lines prints plain text for accessible mode.
package render

import (
	"errors"
	"strings"
	"time"
)

// ErrStopped is returned when a stopped renderer is started again.
var ErrStopped = errors.New("renderer stopped")

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

const maxFPS = 120

// Renderer is the interactive renderer driven by a Program. Write may be
// called any number of times between flushes; only the latest view is drawn.
type Renderer interface {
	Start() error
	Write(view string)
	Resize(width, height int)
	Repaint()
	Pause()
	Resume()
	Stop() error
	Errors() <-chan error
}

// Options control terminal modes entered at Start.
type Options struct {
	FPS       int
	AltScreen bool
	Mouse     bool
	// NoColor strips every escape sequence from views before drawing.
	NoColor bool
	// Width and Height bound the frame until Resize is called. Zero means
	// unbounded.
	Width  int
	Height int
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if fps > maxFPS {
		fps = maxFPS
	}
	return time.Second / time.Duration(fps)
}

// splitLines breaks a view into display lines, dropping a single trailing
// newline and any carriage returns.
func splitLines(view string) []string {
	view = strings.ReplaceAll(view, "\r\n", "\n")
	view = strings.TrimSuffix(view, "\n")
	if view == "" {
		return nil
	}
	lines := strings.Split(view, "\n")
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(l, "\r", "")
	}
	return lines
}
