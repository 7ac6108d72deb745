package timer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/brewfocus/internal/clock"
	"github.com/alexanderramin/brewfocus/internal/domain"
)

// Config holds the dependencies of a Session. Zero values get defaults.
type Config struct {
	Clock         clock.Clock
	TickInterval  time.Duration
	CustomSeconds int
	Phase         domain.Phase
	Notifier      Notifier
	Logger        *slog.Logger
}

type request struct {
	cmd   Command
	reply chan Snapshot
}

// Session owns a Machine on a single goroutine. User commands, countdown
// events and the auto-chain timer are applied in the order Run receives
// them, so the machine never needs a lock.
type Session struct {
	id      string
	logger  *slog.Logger
	engine  *clock.Engine
	machine *Machine

	requests chan request
	done     chan struct{}
	version  uint64 // owned by Run

	mu     sync.Mutex
	subs   []chan Snapshot
	closed bool
}

// NewSession wires a clock engine and machine. Call Run to start it.
func NewSession(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.CustomSeconds <= 0 {
		cfg.CustomSeconds = domain.DefaultCustomSeconds
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.NewString()
	logger := cfg.Logger.With("session", id)

	engine := clock.NewEngine(cfg.Clock,
		clock.WithInterval(cfg.TickInterval),
		clock.WithLogger(logger.With("component", "clock")),
	)
	machine := NewMachine(cfg.Clock, engine, domain.NewCatalog(cfg.CustomSeconds),
		WithNotifier(cfg.Notifier),
		WithLogger(logger.With("component", "timer")),
	)
	if cfg.Phase.Valid() && cfg.Phase != domain.PhaseFocus {
		machine.ChangeMode(cfg.Phase)
	}

	return &Session{
		id:       id,
		logger:   logger,
		engine:   engine,
		machine:  machine,
		requests: make(chan request),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run processes commands and events until ctx is cancelled. It returns
// ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		s.engine.Close()
		s.machine.Shutdown()
		s.closeSubscribers()
		close(s.done)
		s.logger.Debug("session stopped")
	}()

	s.logger.Info("session started", "phase", s.machine.phase)
	s.publish(s.snapshot())

	events := s.engine.Events()
	for {
		var reply chan Snapshot
		changed := false
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.requests:
			changed = req.cmd.apply(s.machine)
			if req.cmd.Kind != CmdInspect {
				s.logger.Debug("command applied", "command", req.cmd.Kind, "changed", changed)
			}
			reply = req.reply
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			changed = s.machine.HandleEngineEvent(ev)
		case <-s.machine.ChainC():
			changed = s.machine.FireChain()
		}
		if changed {
			s.version++
		}
		if reply == nil && !changed {
			continue
		}
		snap := s.snapshot()
		if reply != nil {
			reply <- snap
		}
		if changed {
			s.publish(snap)
		}
	}
}

func (s *Session) snapshot() Snapshot {
	snap := s.machine.Snapshot()
	snap.Version = s.version
	return snap
}

// Do applies cmd and returns the resulting snapshot.
func (s *Session) Do(ctx context.Context, cmd Command) (Snapshot, error) {
	req := request{cmd: cmd, reply: make(chan Snapshot, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return Snapshot{}, ErrSessionClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-req.reply:
		return snap, nil
	case <-s.done:
		return Snapshot{}, ErrSessionClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Subscribe returns a channel that receives a snapshot after every state
// change. A slow reader only ever sees the newest snapshot. The channel is
// closed when Run returns.
func (s *Session) Subscribe(buffer int) <-chan Snapshot {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// publish never blocks: a full channel loses its oldest snapshot.
func (s *Session) publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}
