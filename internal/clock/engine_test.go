package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var epoch0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *Fake) {
	t.Helper()
	clk := NewFake(epoch0)
	return NewEngine(clk), clk
}

// nextEvent waits for the next event of the given epoch, dropping stale ones
// the way a receiver is expected to.
func nextEvent(t *testing.T, e *Engine, epoch uint64) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-e.Events():
			require.True(t, ok, "events channel closed")
			if ev.Epoch != epoch {
				continue
			}
			return ev
		case <-timeout:
			t.Fatal("timed out waiting for engine event")
			return Event{}
		}
	}
}

func assertNoEvent(t *testing.T, e *Engine) {
	t.Helper()
	select {
	case ev := <-e.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestEngine_TickDerivedFromDeadline(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e, clk := newTestEngine(t)
	defer e.Close()

	ep := e.Start(1500)
	clk.Advance(time.Second)

	ev := nextEvent(t, e, ep)
	assert.Equal(t, EventTick, ev.Kind)
	assert.Equal(t, ep, ev.Epoch)
	assert.Equal(t, 1499, ev.Remaining)
}

func TestEngine_SuspendedHostCatchesUp(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e, clk := newTestEngine(t)
	defer e.Close()

	ep := e.Start(300)
	// One sample after 90 seconds of silence, as when a process is throttled.
	clk.Advance(90 * time.Second)

	ev := nextEvent(t, e, ep)
	assert.Equal(t, EventTick, ev.Kind)
	assert.Equal(t, 210, ev.Remaining)
}

func TestEngine_SubSecondSamplesDoNotRepeatTicks(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e, clk := newTestEngine(t)
	defer e.Close()

	ep := e.Start(10)
	clk.Advance(1200 * time.Millisecond)
	ev := nextEvent(t, e, ep)
	assert.Equal(t, 9, ev.Remaining)

	// 8.8s -> 8.7s left both round up to 9.
	clk.Advance(100 * time.Millisecond)
	assertNoEvent(t, e)

	clk.Advance(time.Second)
	ev = nextEvent(t, e, ep)
	assert.Equal(t, 8, ev.Remaining)
}

func TestEngine_CompleteFiresOnceAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e, clk := newTestEngine(t)
	defer e.Close()

	ep := e.Start(5)
	clk.Advance(10 * time.Second)

	ev := nextEvent(t, e, ep)
	assert.Equal(t, EventComplete, ev.Kind)
	assert.Equal(t, ep, ev.Epoch)
	assert.Equal(t, 0, ev.Remaining)

	clk.Advance(time.Second)
	assertNoEvent(t, e)
	assert.Equal(t, 0, e.Remaining())
}

func TestEngine_PauseRoundsUpAndNeverNegative(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	for _, d := range []int{1, 2, 59, 1500, 23*3600 + 59*60} {
		e, clk := newTestEngine(t)
		e.Start(d)
		left := e.Pause()
		assert.Equal(t, d, left, "immediate pause keeps full duration")

		e.Start(0)
		clk.Advance(1500 * time.Millisecond)
		left = e.Pause()
		assert.GreaterOrEqual(t, left, 0)
		assert.LessOrEqual(t, left, d)
		e.Close()
	}
}

func TestEngine_ResumeAfterPause(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e, clk := newTestEngine(t)
	defer e.Close()

	e.Start(60)
	clk.Advance(20 * time.Second)
	require.Equal(t, 40, e.Pause())

	// Time spent paused does not count.
	clk.Advance(time.Hour)

	ep := e.Start(0)
	clk.Advance(5 * time.Second)
	ev := nextEvent(t, e, ep)
	assert.Equal(t, 35, ev.Remaining)
}

func TestEngine_StartWithNothingStoredIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e, _ := newTestEngine(t)
	defer e.Close()

	before := e.Epoch()
	assert.Equal(t, before, e.Start(0))
	assert.Equal(t, 0, e.Remaining())
}

func TestEngine_ResetSilencesRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e, clk := newTestEngine(t)
	defer e.Close()

	e.Start(3)
	e.Reset()
	clk.Advance(5 * time.Second)

	assertNoEvent(t, e)
	assert.Equal(t, 0, e.Remaining())
	assert.Equal(t, 0, clk.Pending(), "ticker released")
}

func TestEngine_RestartBumpsEpoch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e, clk := newTestEngine(t)
	defer e.Close()

	first := e.Start(100)
	second := e.Start(50)
	require.Greater(t, second, first)

	clk.Advance(time.Second)
	ev := nextEvent(t, e, second)
	assert.Equal(t, second, ev.Epoch)
	assert.Equal(t, 49, ev.Remaining)
}

func TestEngine_CloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	clk := NewFake(epoch0)
	e := NewEngine(clk, WithInterval(time.Second))

	e.Start(10)
	e.Close()
	e.Close()

	_, ok := <-e.Events()
	assert.False(t, ok)
	assert.Equal(t, e.Epoch(), e.Start(10), "closed engine ignores Start")
}

func TestSecondsUntil(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want int
	}{
		{"past", -time.Second, 0},
		{"exact zero", 0, 0},
		{"one nanosecond", time.Nanosecond, 1},
		{"exact second", time.Second, 1},
		{"just over", time.Second + time.Millisecond, 2},
		{"minutes", 25 * time.Minute, 1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, secondsUntil(epoch0.Add(tt.d), epoch0))
		})
	}
}
