package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// SubID names a subscription. Two subscriptions with the same ID are the
// same producer: returning it again keeps the running one.
type SubID string

// Sub is a long-lived message producer declared by Subscriber models.
type Sub struct {
	ID SubID
	// Run produces messages through emit until ctx is cancelled or emit
	// returns false.
	Run func(ctx context.Context, emit func(Msg) bool)

	animated bool
}

// Every emits fn(t) at a fixed interval. A nil fn emits TickMsg.
func Every(id SubID, interval time.Duration, fn func(time.Time) Msg) Sub {
	return Sub{ID: id, Run: func(ctx context.Context, emit func(Msg) bool) {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				var msg Msg = TickMsg{Time: now}
				if fn != nil {
					msg = fn(now)
				}
				if !emit(msg) {
					return
				}
			}
		}
	}}
}

// Watch wraps an arbitrary producer.
func Watch(id SubID, run func(ctx context.Context, emit func(Msg) bool)) Sub {
	return Sub{ID: id, Run: run}
}

// Animated marks s as purely visual. Animated subscriptions are not
// started in accessible mode or when reduced motion is requested.
func (s Sub) Animated() Sub {
	s.animated = true
	return s
}

func (s Sub) IsAnimated() bool { return s.animated }

type subMsg struct {
	id  SubID
	gen uint64
	msg Msg
}

type producer struct {
	gen    uint64
	cancel context.CancelFunc
}

// subManager diffs the declared subscriptions against the running ones.
// All methods except the producers' emit run on the loop goroutine.
type subManager struct {
	ctx     context.Context
	deliver func(ctx context.Context, msg Msg) bool
	log     *slog.Logger

	reduceMotion bool
	active       map[SubID]*producer
	gen          uint64
	wg           sync.WaitGroup
}

func newSubManager(ctx context.Context, deliver func(context.Context, Msg) bool, log *slog.Logger) *subManager {
	return &subManager{
		ctx:     ctx,
		deliver: deliver,
		log:     log,
		active:  make(map[SubID]*producer),
	}
}

// reconcile starts added subscriptions and stops removed ones. The first
// occurrence of a duplicated ID wins.
func (m *subManager) reconcile(desired []Sub) {
	want := make(map[SubID]Sub, len(desired))
	order := make([]SubID, 0, len(desired))
	for _, s := range desired {
		if s.ID == "" || s.Run == nil {
			continue
		}
		if s.animated && m.reduceMotion {
			continue
		}
		if _, dup := want[s.ID]; dup {
			m.log.Warn("duplicate subscription", "id", s.ID)
			continue
		}
		want[s.ID] = s
		order = append(order, s.ID)
	}
	for id, p := range m.active {
		if _, ok := want[id]; !ok {
			p.cancel()
			delete(m.active, id)
			m.log.Debug("subscription stopped", "id", id)
		}
	}
	for _, id := range order {
		if _, ok := m.active[id]; !ok {
			m.start(want[id])
		}
	}
}

func (m *subManager) start(s Sub) {
	m.gen++
	gen := m.gen
	ctx, cancel := context.WithCancel(m.ctx)
	m.active[s.ID] = &producer{gen: gen, cancel: cancel}
	m.log.Debug("subscription started", "id", s.ID)

	emit := func(msg Msg) bool {
		if ctx.Err() != nil {
			return false
		}
		if msg == nil {
			return true
		}
		return m.deliver(ctx, subMsg{id: s.ID, gen: gen, msg: msg})
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				m.log.Error("subscription panicked", "id", s.ID, "panic", r)
				emit(ErrorMsg{Err: fmt.Errorf("%w: subscription %s: %v", ErrPanic, s.ID, r)})
			}
		}()
		s.Run(ctx, emit)
	}()
}

// accept unwraps env if it came from a producer that is still active.
func (m *subManager) accept(env subMsg) (Msg, bool) {
	p, ok := m.active[env.id]
	if !ok || p.gen != env.gen {
		return nil, false
	}
	return env.msg, true
}

func (m *subManager) stopAll() {
	for id, p := range m.active {
		p.cancel()
		delete(m.active, id)
	}
}

func (m *subManager) ids() []SubID {
	out := make([]SubID, 0, len(m.active))
	for id := range m.active {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
