// Package input produces the ordered event stream consumed by a Program:
// raw key and mouse input, resize notifications, periodic ticks and, in
// accessible mode, whole lines.
package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/muesli/cancelreader"

	"github.com/inferadb/ferment/event"
)

// Emit hands one event to the consumer. It returns false once the
// consumer no longer accepts events and the source must stop.
type Emit func(event.Event) bool

// Source produces events until ctx is cancelled, the input ends, or emit
// returns false. A nil error means the source stopped because it was asked to.
type Source interface {
	Run(ctx context.Context, emit Emit) error
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, emit Emit) error

func (f SourceFunc) Run(ctx context.Context, emit Emit) error { return f(ctx, emit) }

// Raw decodes key, mouse, paste and focus events from a terminal in raw
// mode. Reads are cancellable so the terminal can be handed to a child
// process and reacquired.
type Raw struct {
	r io.Reader
}

func NewRaw(r io.Reader) *Raw { return &Raw{r: r} }

func (s *Raw) Run(ctx context.Context, emit Emit) error {
	cr, err := cancelreader.NewReader(s.r)
	if err != nil {
		return err
	}
	defer cr.Close()

	stop := context.AfterFunc(ctx, func() { cr.Cancel() })
	defer stop()

	var dec Decoder
	buf := make([]byte, 256)
	for {
		n, err := cr.Read(buf)
		if n > 0 {
			for _, ev := range dec.Feed(buf[:n]) {
				if !emit(ev) {
					return nil
				}
			}
		}
		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) || ctx.Err() != nil {
				return nil
			}
			for _, ev := range dec.Flush() {
				if !emit(ev) {
					return nil
				}
			}
			return err
		}
	}
}

// Lines reads newline-terminated input for accessible mode. A trailing
// line without a newline is still delivered before io.EOF.
type Lines struct {
	r io.Reader
}

func NewLines(r io.Reader) *Lines { return &Lines{r: r} }

func (s *Lines) Run(ctx context.Context, emit Emit) error {
	cr, err := cancelreader.NewReader(s.r)
	if err != nil {
		return err
	}
	defer cr.Close()

	stop := context.AfterFunc(ctx, func() { cr.Cancel() })
	defer stop()

	sc := bufio.NewScanner(cr)
	for sc.Scan() {
		if !emit(event.Line{Text: strings.TrimRight(sc.Text(), "\r")}) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, cancelreader.ErrCanceled) || ctx.Err() != nil {
			return nil
		}
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	return io.EOF
}

// Ticker emits event.Tick at a fixed interval.
type Ticker struct {
	Interval time.Duration
}

func (s Ticker) Run(ctx context.Context, emit Emit) error {
	if s.Interval <= 0 {
		<-ctx.Done()
		return nil
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			if !emit(event.Tick{Time: now}) {
				return nil
			}
		}
	}
}

// Merge runs the sources concurrently and serialises their events through
// a single emit. It returns when every source has stopped; the first
// non-nil error wins. Events from one source keep their relative order.
func Merge(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context, emit Emit) error {
		var (
			mu       sync.Mutex
			wg       sync.WaitGroup
			firstErr error
		)
		serial := func(ev event.Event) bool {
			mu.Lock()
			defer mu.Unlock()
			if ctx.Err() != nil {
				return false
			}
			return emit(ev)
		}
		for _, src := range sources {
			if src == nil {
				continue
			}
			wg.Add(1)
			go func(src Source) {
				defer wg.Done()
				if err := src.Run(ctx, serial); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}(src)
		}
		wg.Wait()
		return firstErr
	})
}
