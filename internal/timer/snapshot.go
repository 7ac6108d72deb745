package timer

import (
	"time"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

// Status is the coarse state of the machine.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Snapshot is a read-only copy of the timer state.
type Snapshot struct {
	Phase          domain.Phase
	Label          string
	Total          int
	Remaining      int
	Running        bool
	Complete       bool
	CyclePosition  int
	UntilLongBreak int
	TotalCompleted int
	CompletedToday int
	CustomSeconds  int
	Epoch          uint64
	ChainPending   bool
	NextPhase      domain.Phase
	At             time.Time

	// Version counts state changes within a session. Set by Session only.
	Version uint64
}

func (s Snapshot) Status() Status {
	switch {
	case s.Running:
		return StatusRunning
	case s.Complete:
		return StatusComplete
	default:
		return StatusIdle
	}
}

// Progress is the filled fraction of the current phase, in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.Complete {
		return 1
	}
	if s.Total <= 0 {
		return 0
	}
	p := float64(s.Total-s.Remaining) / float64(s.Total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (s Snapshot) IsBreak() bool {
	return s.Phase.IsBreak()
}

// ShowSuggestion reports whether a barista message belongs on screen.
func (s Snapshot) ShowSuggestion() bool {
	return s.Running || s.Complete
}
