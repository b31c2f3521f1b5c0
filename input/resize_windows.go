//go:build windows

package input

import "time"

// Windows consoles have no SIGWINCH; poll instead.
const resizePoll = 250 * time.Millisecond

func watchResize() (<-chan struct{}, func()) {
	t := time.NewTicker(resizePoll)
	out := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.C:
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, func() {
		t.Stop()
		close(done)
	}
}
