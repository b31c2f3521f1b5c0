package core

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestExecutor(c *collected) *executor {
	return newExecutor(context.Background(), c.deliver, slog.New(slog.DiscardHandler))
}

func TestBatchAndSequenceCompaction(t *testing.T) {
	require.Nil(t, Batch())
	require.Nil(t, Batch(nil, nil))
	require.Nil(t, Sequence())

	require.True(t, IsQuit(Batch(nil, Quit())))
	require.True(t, IsQuit(Sequence(Quit(), nil)))
	require.IsType(t, batch{}, Batch(Quit(), ClearScreen()))
	require.False(t, IsQuit(nil))
}

func TestSequenceDeliversInOrder(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	ok := e.run(Sequence(Send("a"), Tick(5*time.Millisecond, func(time.Time) Msg { return "b" }), Send("c")))
	require.True(t, ok)
	require.Equal(t, []Msg{"a", "b", "c"}, c.all())
}

func TestSequenceStopsAtErrorMessage(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	boom := ErrorMsg{Err: errors.New("boom")}
	ok := e.run(Sequence(Send("a"), Send(boom), Send("c")))
	require.False(t, ok)
	require.Equal(t, []Msg{"a", boom}, c.all())
}

func TestBatchDeliversEveryResult(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	require.True(t, e.run(Batch(Send(1), Send(2), Send(3))))
	require.ElementsMatch(t, []Msg{1, 2, 3}, c.all())
}

func TestPanicBecomesErrorMsg(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	e.run(Single(func(context.Context) Msg { panic("boom") }))

	msgs := c.all()
	require.Len(t, msgs, 1)
	em, ok := msgs[0].(ErrorMsg)
	require.True(t, ok)
	require.ErrorIs(t, em, ErrPanic)
	require.Contains(t, em.Error(), "boom")
}

func TestTryWrapsFailure(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	failing := func(context.Context) (Msg, error) { return nil, errors.New("nope") }
	e.run(Try(failing, nil))
	e.run(Try(failing, func(err error) Msg { return "mapped: " + err.Error() }))
	e.run(Try(func(context.Context) (Msg, error) { return "fine", nil }, nil))
	require.Equal(t, []Msg{ErrorMsg{Err: errors.New("nope")}, "mapped: nope", "fine"}, c.all())
}

func TestTickWaitsAtLeastDuration(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	start := time.Now()
	e.run(Tick(20*time.Millisecond, nil))
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	msgs := c.all()
	require.Len(t, msgs, 1)
	require.IsType(t, TickMsg{}, msgs[0])
}

func TestStoppedTimersAbortTick(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	e.stopTimers()
	require.False(t, e.run(Sequence(Tick(time.Hour, nil), Send("after"))))
	require.Empty(t, c.all())
}

func TestEffectSeesAbandonment(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	e.start(Single(func(ctx context.Context) Msg {
		<-ctx.Done()
		return "stopped"
	}))
	e.abandon()
	e.wg.Wait()
	require.Equal(t, []Msg{"stopped"}, c.all())
}

func TestQuitInsideBatchIsDelivered(t *testing.T) {
	t.Parallel()
	var c collected
	e := newTestExecutor(&c)
	e.run(Batch(Quit(), ClearScreen()))
	require.ElementsMatch(t, []Msg{QuitMsg{}, repaintMsg{}}, c.all())
}
