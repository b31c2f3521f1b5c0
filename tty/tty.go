// Package tty owns the terminal modes a Program needs: raw input and size
// queries. Streams that are not terminals pass through untouched.
package tty

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

var ErrNotTerminal = errors.New("not a terminal")

type fileDescriptor interface {
	Fd() uintptr
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(fileDescriptor)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsFile reports whether v exposes a file descriptor.
func IsFile(v any) bool {
	_, ok := v.(fileDescriptor)
	return ok
}

// Terminal wraps the program's input and output streams.
type Terminal struct {
	in  io.Reader
	out io.Writer

	mu    sync.Mutex
	state *term.State
}

func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// InputIsTerminal reports whether raw mode can be entered.
func (t *Terminal) InputIsTerminal() bool { return IsTerminal(t.in) }

// OutputIsTerminal reports whether the output can be sized.
func (t *Terminal) OutputIsTerminal() bool { return IsTerminal(t.out) }

// MakeRaw puts the input terminal in raw mode. It is a no-op for
// non-terminal input and when raw mode is already active.
func (t *Terminal) MakeRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != nil || !IsTerminal(t.in) {
		return nil
	}
	fd := t.in.(fileDescriptor).Fd()
	st, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.state = st
	return nil
}

// Restore returns the input terminal to the mode it had before MakeRaw.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return nil
	}
	fd := t.in.(fileDescriptor).Fd()
	err := term.Restore(fd, t.state)
	t.state = nil
	if err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

// Raw reports whether raw mode is active.
func (t *Terminal) Raw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != nil
}

// Size returns the terminal size, preferring the output stream.
func (t *Terminal) Size() (width, height int, err error) {
	for _, v := range []any{t.out, t.in} {
		if !IsTerminal(v) {
			continue
		}
		w, h, err := term.GetSize(v.(fileDescriptor).Fd())
		if err == nil && w > 0 && h > 0 {
			return w, h, nil
		}
	}
	return 0, 0, ErrNotTerminal
}
