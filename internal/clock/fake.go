package clock

import (
	"sync"
	"time"
)

// Fake is a Clock whose time only moves when Advance is called. Tickers and
// timers created from it fire during Advance. Like time.Ticker, a ticker
// whose channel is still full when it fires drops the sample, so a single
// large Advance behaves like a host that was suspended for that long.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	clock    *Fake
	ch       chan time.Time
	deadline time.Time
	period   time.Duration // zero for one-shot timers
	stopped  bool
}

// NewFake creates a fake clock starting at the given time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}
	return fakeTicker{w: f.add(d, d)}
}

func (f *Fake) NewTimer(d time.Duration) Timer {
	return f.add(d, 0)
}

func (f *Fake) add(d, period time.Duration) *fakeWaiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &fakeWaiter{
		clock:    f,
		ch:       make(chan time.Time, 1),
		deadline: f.now.Add(d),
		period:   period,
	}
	f.waiters = append(f.waiters, w)
	return w
}

// Advance moves the clock forward by d and fires every ticker and timer
// whose deadline has been reached. Each ticker fires at most once per call.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
	kept := f.waiters[:0]
	for _, w := range f.waiters {
		if w.stopped {
			continue
		}
		if f.now.Before(w.deadline) {
			kept = append(kept, w)
			continue
		}
		select {
		case w.ch <- f.now:
		default:
		}
		if w.period > 0 {
			w.deadline = f.now.Add(w.period)
			kept = append(kept, w)
		}
	}
	f.waiters = kept
}

// Pending returns the number of tickers and timers that can still fire.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, w := range f.waiters {
		if !w.stopped {
			n++
		}
	}
	return n
}

func (w *fakeWaiter) C() <-chan time.Time { return w.ch }

func (w *fakeWaiter) Stop() bool {
	w.clock.mu.Lock()
	defer w.clock.mu.Unlock()
	if w.stopped {
		return false
	}
	w.stopped = true
	for _, other := range w.clock.waiters {
		if other == w {
			return true
		}
	}
	// Already fired and removed (one-shot).
	return false
}

type fakeTicker struct{ w *fakeWaiter }

func (t fakeTicker) C() <-chan time.Time { return t.w.ch }
func (t fakeTicker) Stop()               { t.w.Stop() }
