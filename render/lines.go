package render

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Lines renders for accessible mode: plain text, no cursor movement, no
// escape sequences of any kind. A view is printed only when it differs
// from the previous one.
type Lines struct {
	out io.Writer

	mu   sync.Mutex
	last string
	err  error
	errs chan error
}

// NewLines returns a line renderer printing to out.
func NewLines(out io.Writer) *Lines {
	return &Lines{out: out, errs: make(chan error, 1)}
}

// Write prints view if its plain text changed since the last Write.
func (l *Lines) Write(view string) {
	text := plain(view)
	l.mu.Lock()
	defer l.mu.Unlock()
	if text == "" || text == l.last {
		return
	}
	l.last = text
	l.print(text)
}

// Print writes s as its own line regardless of what was printed before.
func (l *Lines) Print(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.print(plain(s))
}

// Errors receives the first write failure. Nothing is printed after it.
func (l *Lines) Errors() <-chan error { return l.errs }

// Err returns the first write error.
func (l *Lines) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Lines) print(text string) {
	if l.err != nil {
		return
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(l.out, text); err != nil {
		l.err = err
		select {
		case l.errs <- err:
		default:
		}
	}
}

// plain strips escape sequences and trailing spaces from every line.
func plain(s string) string {
	lines := splitLines(ansi.Strip(s))
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
