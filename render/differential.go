package render

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// Differential is the interactive renderer. Views handed to Write are
// coalesced and drawn at most once per frame interval; each flush writes
// only the lines that differ from the committed frame in a single Write.
type Differential struct {
	out      io.Writer
	opts     Options
	interval time.Duration

	mu      sync.Mutex
	view    string
	dirty   bool
	frame   []string
	painted bool
	cursor  int
	width   int
	height  int
	started bool
	paused  bool
	stopped bool
	failed  bool

	errs chan error
	done chan struct{}
	wg   sync.WaitGroup
}

var _ Renderer = (*Differential)(nil)

// NewDifferential returns a renderer drawing to out. Nothing is written
// until Start.
func NewDifferential(out io.Writer, opts Options) *Differential {
	return &Differential{
		out:      out,
		opts:     opts,
		interval: frameInterval(opts.FPS),
		width:    opts.Width,
		height:   opts.Height,
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// Start enters the configured terminal modes and begins the frame loop.
func (r *Differential) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	r.started = true
	if _, err := io.WriteString(r.out, r.enterModes()); err != nil {
		r.failed = true
		return err
	}
	r.wg.Add(1)
	go r.loop()
	return nil
}

func (r *Differential) loop() {
	defer r.wg.Done()
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-t.C:
			r.flush()
		}
	}
}

// Write records view as the latest frame. Intermediate views written
// between flushes are never drawn.
func (r *Differential) Write(view string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.view = view
	r.dirty = true
}

// Resize bounds subsequent frames and forces a full repaint.
func (r *Differential) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.painted = false
	r.dirty = true
}

// Repaint discards the committed frame so the next flush redraws everything.
func (r *Differential) Repaint() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.painted = false
	r.dirty = true
}

// Pause leaves the terminal modes and stops drawing until Resume.
func (r *Differential) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused || !r.started || r.stopped {
		return
	}
	r.paused = true
	var b strings.Builder
	if !r.opts.AltScreen && r.painted && len(r.frame) > 0 {
		b.WriteString(r.moveTo(len(r.frame) - 1))
		b.WriteString("\r\n")
	}
	b.WriteString(r.exitModes())
	r.writeLocked(b.String())
}

// Resume re-enters the terminal modes and repaints the latest view.
func (r *Differential) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.paused || r.stopped {
		return
	}
	r.paused = false
	r.painted = false
	r.frame = nil
	r.cursor = 0
	r.dirty = true
	r.writeLocked(r.enterModes())
}

// Stop draws the latest view, leaves the terminal modes and ends the frame
// loop. It is safe to call more than once.
func (r *Differential) Stop() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	started := r.started
	r.mu.Unlock()

	if started {
		close(r.done)
		r.wg.Wait()
	}
	r.flush()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if !started {
		return nil
	}
	var b strings.Builder
	if !r.opts.AltScreen && r.painted && len(r.frame) > 0 && !r.paused {
		b.WriteString(r.moveTo(len(r.frame) - 1))
		b.WriteString("\r\n")
	}
	if !r.paused {
		b.WriteString(r.exitModes())
	}
	if r.failed {
		return ErrStopped
	}
	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return err
	}
	return nil
}

// Errors reports the first write failure. The renderer stops drawing
// after it.
func (r *Differential) Errors() <-chan error { return r.errs }

func (r *Differential) flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dirty || r.paused || r.stopped || r.failed || !r.started {
		return
	}
	r.dirty = false

	lines := r.layout(r.view)
	var buf bytes.Buffer

	if !r.painted {
		if r.opts.AltScreen {
			buf.WriteString(ansi.CursorHomePosition)
			buf.WriteString(ansi.EraseEntireScreen)
			r.cursor = 0
		} else {
			buf.WriteString(r.moveTo(0))
			buf.WriteString(ansi.EraseScreenBelow)
		}
		for i, line := range lines {
			buf.WriteString(r.moveTo(i))
			buf.WriteString(line)
			buf.WriteString(ansi.EraseLineRight)
		}
		r.painted = true
	} else {
		for i, line := range lines {
			if i < len(r.frame) && r.frame[i] == line {
				continue
			}
			buf.WriteString(r.moveTo(i))
			buf.WriteString(line)
			buf.WriteString(ansi.EraseLineRight)
		}
		for i := len(lines); i < len(r.frame); i++ {
			buf.WriteString(r.moveTo(i))
			buf.WriteString(ansi.EraseEntireLine)
		}
	}
	r.frame = lines

	if buf.Len() == 0 {
		return
	}
	r.writeLocked(buf.String())
}

// layout splits the view and fits it to the current bounds. When the view
// is taller than the terminal the top lines are dropped.
func (r *Differential) layout(view string) []string {
	lines := splitLines(view)
	if r.height > 0 && len(lines) > r.height {
		lines = lines[len(lines)-r.height:]
	}
	for i, l := range lines {
		if r.opts.NoColor {
			l = ansi.Strip(l)
		}
		if r.width > 0 {
			l = ansi.Truncate(l, r.width, "")
		}
		lines[i] = l
	}
	return lines
}

// moveTo returns the sequence that puts the cursor at the start of frame
// row i and records the new position. Moving down uses line feeds so an
// inline frame can grow past the bottom of the screen.
func (r *Differential) moveTo(i int) string {
	var s string
	switch {
	case i < r.cursor:
		s = ansi.CursorUp(r.cursor - i)
	case i > r.cursor:
		s = strings.Repeat("\n", i-r.cursor)
	}
	r.cursor = i
	return s + "\r"
}

func (r *Differential) writeLocked(s string) {
	if s == "" || r.failed {
		return
	}
	if _, err := io.WriteString(r.out, s); err != nil {
		r.failed = true
		select {
		case r.errs <- err:
		default:
		}
	}
}

func (r *Differential) enterModes() string {
	var b strings.Builder
	if r.opts.AltScreen {
		b.WriteString(ansi.SetAltScreenSaveCursorMode)
		b.WriteString(ansi.EraseEntireScreen)
		b.WriteString(ansi.CursorHomePosition)
	}
	b.WriteString(ansi.HideCursor)
	if r.opts.Mouse {
		b.WriteString(ansi.SetButtonEventMouseMode)
		b.WriteString(ansi.SetSgrExtMouseMode)
	}
	b.WriteString(ansi.SetBracketedPasteMode)
	b.WriteString(ansi.SetFocusEventMode)
	return b.String()
}

func (r *Differential) exitModes() string {
	var b strings.Builder
	b.WriteString(ansi.ResetFocusEventMode)
	b.WriteString(ansi.ResetBracketedPasteMode)
	if r.opts.Mouse {
		b.WriteString(ansi.ResetSgrExtMouseMode)
		b.WriteString(ansi.ResetButtonEventMouseMode)
	}
	b.WriteString(ansi.ShowCursor)
	if r.opts.AltScreen {
		b.WriteString(ansi.ResetAltScreenSaveCursorMode)
	}
	return b.String()
}
