package input

import (
	"context"

	"github.com/inferadb/ferment/event"
)

// SizeFunc reports the current terminal size in cells.
type SizeFunc func() (width, height int, err error)

// Resize emits event.Resize whenever the terminal size changes. The
// initial size is not emitted; the Program reports it before Init.
type Resize struct {
	Size SizeFunc

	last [2]int
}

func NewResize(size SizeFunc) *Resize {
	r := &Resize{Size: size}
	if w, h, err := size(); err == nil {
		r.last = [2]int{w, h}
	}
	return r
}

func (s *Resize) Run(ctx context.Context, emit Emit) error {
	notify, stop := watchResize()
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-notify:
			w, h, err := s.Size()
			if err != nil || w <= 0 || h <= 0 {
				continue
			}
			if s.last == [2]int{w, h} {
				continue
			}
			s.last = [2]int{w, h}
			if !emit(event.Resize{Width: w, Height: h}) {
				return nil
			}
		}
	}
}
