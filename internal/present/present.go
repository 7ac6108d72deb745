// Package present turns timer snapshots into render frames. It only reads
// state; nothing here can change the timer.
package present

import (
	"github.com/alexanderramin/brewfocus/internal/cli/formatter"
	"github.com/alexanderramin/brewfocus/internal/domain"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

const (
	CaptionSipping  = "Enjoy your sip..."
	CaptionBrewing  = "Brewing focus..."
	CaptionComplete = "Brew Complete!"
	CaptionCustom   = "Set time & brew"
	CaptionIdle     = "Ready to brew?"
)

// Frame is everything a view needs to draw one update.
type Frame struct {
	Progress       float64
	Running        bool
	Complete       bool
	Phase          domain.Phase
	Label          string
	Remaining      int
	Clock          string
	Caption        string
	CyclePosition  int
	TotalCompleted int
	CompletedToday int
	LiquidColor    string
	Roast          domain.Roast
	NextPhase      domain.Phase // set while an auto-chain is pending
}

// Sink consumes frames.
type Sink interface {
	Render(Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Frame)

func (f SinkFunc) Render(fr Frame) { f(fr) }

// FrameFor builds the frame for s drawn in roast r.
func FrameFor(s timer.Snapshot, r domain.Roast) Frame {
	f := Frame{
		Progress:       s.Progress(),
		Running:        s.Running,
		Complete:       s.Complete,
		Phase:          s.Phase,
		Label:          s.Label,
		Remaining:      s.Remaining,
		Clock:          formatter.FormatClock(s.Remaining),
		Caption:        Caption(s),
		CyclePosition:  s.CyclePosition,
		TotalCompleted: s.TotalCompleted,
		CompletedToday: s.CompletedToday,
		LiquidColor:    r.Theme().Liquid,
		Roast:          r,
	}
	if s.ChainPending {
		f.NextPhase = s.NextPhase
	}
	return f
}

// Caption is the one-line status under the mug.
func Caption(s timer.Snapshot) string {
	switch {
	case s.Running && s.IsBreak():
		return CaptionSipping
	case s.Running:
		return CaptionBrewing
	case s.Complete:
		return CaptionComplete
	case s.Phase == domain.PhaseCustom:
		return CaptionCustom
	default:
		return CaptionIdle
	}
}
