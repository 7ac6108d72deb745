package clock

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is how often a running countdown samples the clock.
const DefaultInterval = 100 * time.Millisecond

// EventKind identifies the kind of engine event.
type EventKind int

const (
	EventTick EventKind = iota + 1
	EventComplete
)

func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Event is emitted by a running countdown. Epoch identifies the Start call
// that produced it; receivers must drop events from any other epoch.
type Event struct {
	Epoch     uint64
	Kind      EventKind
	Remaining int
	At        time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval sets the sampling interval.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBuffer sets the capacity of the events channel.
func WithBuffer(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.buffer = n
		}
	}
}

// Engine is a countdown driven by an absolute deadline. Each sample
// recomputes the remaining seconds from the deadline, so however many samples
// are missed the next one reports true elapsed time.
//
// Start, Pause and Reset are synchronous: when they return, the sampling
// goroutine of the previous run has exited.
type Engine struct {
	clock    Clock
	interval time.Duration
	buffer   int
	logger   *slog.Logger
	events   chan Event

	mu        sync.Mutex
	epoch     uint64
	deadline  time.Time
	remaining int
	active    *run
	closed    bool
}

type run struct {
	epoch    uint64
	deadline time.Time
	last     int
	ticker   Ticker
	stop     chan struct{}
	done     chan struct{}
}

// NewEngine creates an idle Engine.
func NewEngine(clk Clock, opts ...Option) *Engine {
	if clk == nil {
		clk = Real{}
	}
	e := &Engine{
		clock:    clk,
		interval: DefaultInterval,
		buffer:   16,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.events = make(chan Event, e.buffer)
	return e
}

// Events returns the channel on which ticks and completions are delivered.
// It is closed by Close.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Start begins a countdown of the given number of seconds and returns its
// epoch. Any previous run is cancelled first. A non-positive value resumes
// from the remaining time stored by the last Pause; if nothing is stored,
// Start does nothing and returns the current epoch.
func (e *Engine) Start(seconds int) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.epoch
	}
	if seconds <= 0 {
		seconds = e.remaining
	}
	if seconds <= 0 {
		return e.epoch
	}

	e.stopLocked()
	e.epoch++
	e.deadline = e.clock.Now().Add(time.Duration(seconds) * time.Second)
	e.remaining = seconds

	r := &run{
		epoch:    e.epoch,
		deadline: e.deadline,
		last:     seconds,
		ticker:   e.clock.NewTicker(e.interval),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	e.active = r
	go e.loop(r)

	e.logger.Debug("countdown started", "epoch", r.epoch, "seconds", seconds)
	return r.epoch
}

// Pause cancels the running countdown and returns the whole seconds left,
// rounded up. The value is kept for a later Start(0).
func (e *Engine) Pause() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.epoch++
	if !e.deadline.IsZero() {
		e.remaining = secondsUntil(e.deadline, e.clock.Now())
		e.deadline = time.Time{}
	}
	e.logger.Debug("countdown paused", "epoch", e.epoch, "remaining", e.remaining)
	return e.remaining
}

// Reset cancels the running countdown and forgets any stored remaining time.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.epoch++
	e.remaining = 0
	e.deadline = time.Time{}
	e.logger.Debug("countdown reset", "epoch", e.epoch)
}

// Remaining returns the seconds left on the current countdown, or the stored
// value when paused.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deadline.IsZero() {
		return e.remaining
	}
	return secondsUntil(e.deadline, e.clock.Now())
}

// Epoch returns the current generation.
func (e *Engine) Epoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch
}

// Close stops any running countdown and closes the events channel.
// The engine cannot be restarted.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.stopLocked()
	e.closed = true
	close(e.events)
}

// stopLocked cancels the active run and waits for its goroutine to exit.
// The loop never takes e.mu, so waiting here cannot deadlock.
func (e *Engine) stopLocked() {
	r := e.active
	if r == nil {
		return
	}
	e.active = nil
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	<-r.done
}

func (e *Engine) loop(r *run) {
	defer close(r.done)
	defer r.ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.C():
		}

		left := secondsUntil(r.deadline, e.clock.Now())
		if left <= 0 {
			e.send(r, EventComplete, 0)
			return
		}
		if left < r.last {
			r.last = left
			if !e.send(r, EventTick, left) {
				return
			}
		}
	}
}

// send delivers an event unless the run has been cancelled.
func (e *Engine) send(r *run, kind EventKind, remaining int) bool {
	select {
	case <-r.stop:
		return false
	default:
	}
	ev := Event{Epoch: r.epoch, Kind: kind, Remaining: remaining, At: e.clock.Now()}
	select {
	case e.events <- ev:
		return true
	case <-r.stop:
		return false
	}
}

// secondsUntil returns ceil((deadline-now)/1s), never negative.
func secondsUntil(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
