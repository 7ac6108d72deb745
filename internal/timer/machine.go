// Package timer holds the Pomodoro state machine and the session actor that
// serializes user commands and countdown events into it.
package timer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/brewfocus/internal/clock"
	"github.com/alexanderramin/brewfocus/internal/domain"
)

// ChainDelay is the pause between a finished phase and the next one starting.
const ChainDelay = 2 * time.Second

const notifyTimeout = 5 * time.Second

// Countdown is the part of clock.Engine the machine drives.
type Countdown interface {
	Start(seconds int) uint64
	Pause() int
	Reset()
}

// Option configures a Machine.
type Option func(*Machine)

func WithNotifier(n Notifier) Option {
	return func(m *Machine) {
		if n != nil {
			m.notifier = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// Machine is the only writer of the timer state. It is not safe for
// concurrent use: a single goroutine (see Session) must own it.
type Machine struct {
	clock    clock.Clock
	engine   Countdown
	catalog  *domain.Catalog
	notifier Notifier
	logger   *slog.Logger

	phase     domain.Phase
	remaining int
	running   bool
	complete  bool
	counters  domain.Counters
	epoch     uint64

	// Pending auto-chain. chainFor is the generation the armed timer was
	// created under; any cancel bumps chainGen so a late fire is ignored.
	chain    clock.Timer
	chainGen uint64
	chainFor uint64
	next     domain.Phase

	notifying sync.WaitGroup
}

// NewMachine creates a machine idle on Focus with zero counters.
func NewMachine(clk clock.Clock, engine Countdown, catalog *domain.Catalog, opts ...Option) *Machine {
	if catalog == nil {
		catalog = domain.NewCatalog(domain.DefaultCustomSeconds)
	}
	m := &Machine{
		clock:    clk,
		engine:   engine,
		catalog:  catalog,
		notifier: NoopNotifier{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		phase:    domain.PhaseFocus,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.remaining = m.catalog.Seconds(m.phase)
	return m
}

// Start begins counting down from the current remaining time. Only valid
// when idle with time left.
func (m *Machine) Start() bool {
	if m.running || m.complete || m.remaining <= 0 {
		return false
	}
	m.epoch = m.engine.Start(m.remaining)
	m.running = true
	m.logger.Info("timer started", "phase", m.phase, "remaining", m.remaining, "epoch", m.epoch)
	return true
}

// Pause stops the countdown. The engine's deadline-derived value wins over
// the last tick seen, and a deadline that already passed completes the phase.
func (m *Machine) Pause() bool {
	if !m.running {
		return false
	}
	left := m.engine.Pause()
	if left <= 0 {
		m.logger.Info("deadline passed before pause", "phase", m.phase, "epoch", m.epoch)
		m.completePhase()
		return true
	}
	if left < m.remaining {
		m.remaining = left
	}
	m.running = false
	m.logger.Info("timer paused", "phase", m.phase, "remaining", m.remaining)
	return true
}

// Toggle is the play/pause button.
func (m *Machine) Toggle() bool {
	if m.running {
		return m.Pause()
	}
	return m.Start()
}

// Reset stops everything and refills the current phase.
func (m *Machine) Reset() bool {
	m.engine.Reset()
	m.cancelChain()
	m.running = false
	m.complete = false
	m.remaining = m.catalog.Seconds(m.phase)
	m.logger.Debug("timer reset", "phase", m.phase)
	return true
}

// ChangeMode switches to p with reset semantics. Counters are untouched.
func (m *Machine) ChangeMode(p domain.Phase) bool {
	if !p.Valid() {
		return false
	}
	m.engine.Reset()
	m.cancelChain()
	m.phase = p
	m.running = false
	m.complete = false
	m.remaining = m.catalog.Seconds(p)
	m.logger.Info("phase selected", "phase", p, "remaining", m.remaining)
	return true
}

// SetCustomHours edits the custom duration. Edits are refused while running
// or while a completion is latched.
func (m *Machine) SetCustomHours(h int) bool {
	if !m.editable() {
		return false
	}
	m.applyCustom(m.catalog.SetCustomHours(h))
	return true
}

// SetCustomMinutes edits the custom duration; see SetCustomHours.
func (m *Machine) SetCustomMinutes(min int) bool {
	if !m.editable() {
		return false
	}
	m.applyCustom(m.catalog.SetCustomMinutes(min))
	return true
}

func (m *Machine) editable() bool {
	return !m.running && !m.complete
}

func (m *Machine) applyCustom(total int) {
	if m.phase == domain.PhaseCustom {
		m.remaining = total
	}
	m.logger.Debug("custom duration set", "seconds", total)
}

// HandleEngineEvent applies a countdown event. Events from a cancelled or
// superseded run are dropped. It reports whether the state changed.
func (m *Machine) HandleEngineEvent(ev clock.Event) bool {
	if !m.running || ev.Epoch != m.epoch {
		m.logger.Debug("stale countdown event dropped", "kind", ev.Kind, "epoch", ev.Epoch, "current", m.epoch)
		return false
	}
	switch ev.Kind {
	case clock.EventTick:
		if ev.Remaining == m.remaining {
			return false
		}
		m.remaining = ev.Remaining
		return true
	case clock.EventComplete:
		m.completePhase()
		return true
	}
	return false
}

func (m *Machine) completePhase() {
	m.remaining = 0
	m.running = false
	m.complete = true
	m.notify(m.phase)

	now := m.clock.Now()
	var next domain.Phase
	switch m.phase {
	case domain.PhaseCustom:
		m.counters.RecordSession(now)
		m.logger.Info("custom brew complete", "total_completed", m.counters.Total())
		return
	case domain.PhaseFocus:
		m.counters.RecordSession(now)
		m.counters.AdvanceStreak()
		next = domain.PhaseShortBreak
		if m.counters.LongBreakDue() {
			next = domain.PhaseLongBreak
		}
	case domain.PhaseShortBreak:
		next = domain.PhaseFocus
	case domain.PhaseLongBreak:
		m.counters.ResetStreak()
		next = domain.PhaseFocus
	}

	m.cancelChain()
	m.chain = m.clock.NewTimer(ChainDelay)
	m.chainFor = m.chainGen
	m.next = next
	m.logger.Info("phase complete", "phase", m.phase, "next", next,
		"cycle_position", m.counters.CyclePosition(), "total_completed", m.counters.Total())
}

// ChainC fires when the pending auto-chain is due. It is nil when nothing
// is scheduled, which blocks forever in a select.
func (m *Machine) ChainC() <-chan time.Time {
	if m.chain == nil {
		return nil
	}
	return m.chain.C()
}

// FireChain starts the phase chosen at completion. It does nothing if the
// chain was cancelled after its timer fired.
func (m *Machine) FireChain() bool {
	if m.chain == nil || m.chainFor != m.chainGen || !m.complete {
		m.logger.Debug("stale auto-chain dropped")
		return false
	}
	m.chain = nil
	next := m.next

	m.phase = next
	m.complete = false
	m.remaining = m.catalog.Seconds(next)
	m.epoch = m.engine.Start(m.remaining)
	m.running = true
	m.logger.Info("auto-chained", "phase", next, "remaining", m.remaining, "epoch", m.epoch)
	return true
}

func (m *Machine) cancelChain() {
	if m.chain != nil {
		m.chain.Stop()
		m.chain = nil
	}
	m.chainGen++
}

// notify runs the notifier off the owner goroutine.
func (m *Machine) notify(phase domain.Phase) {
	n := m.notifier
	m.notifying.Add(1)
	go func() {
		defer m.notifying.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.Notify(ctx, phase); err != nil {
			m.logger.Warn("notification failed", "phase", phase, "error", err)
		}
	}()
}

// Shutdown cancels the pending chain and waits for in-flight notifications.
func (m *Machine) Shutdown() {
	m.cancelChain()
	m.notifying.Wait()
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	now := m.clock.Now()
	s := Snapshot{
		Phase:          m.phase,
		Label:          m.phase.Label(),
		Total:          m.catalog.Seconds(m.phase),
		Remaining:      m.remaining,
		Running:        m.running,
		Complete:       m.complete,
		CyclePosition:  m.counters.CyclePosition(),
		UntilLongBreak: m.counters.UntilLongBreak(),
		TotalCompleted: m.counters.Total(),
		CompletedToday: m.counters.CompletedOn(now),
		CustomSeconds:  m.catalog.CustomSeconds(),
		Epoch:          m.epoch,
		ChainPending:   m.chain != nil,
		At:             now,
	}
	if s.ChainPending {
		s.NextPhase = m.next
	}
	return s
}

// Catalog exposes the phase table for display.
func (m *Machine) Catalog() *domain.Catalog {
	return m.catalog
}
