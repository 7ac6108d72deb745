package present

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/brewfocus/internal/domain"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

func TestCaption(t *testing.T) {
	tests := []struct {
		name string
		snap timer.Snapshot
		want string
	}{
		{"running focus", timer.Snapshot{Phase: domain.PhaseFocus, Running: true}, CaptionBrewing},
		{"running custom", timer.Snapshot{Phase: domain.PhaseCustom, Running: true}, CaptionBrewing},
		{"running short break", timer.Snapshot{Phase: domain.PhaseShortBreak, Running: true}, CaptionSipping},
		{"running long break", timer.Snapshot{Phase: domain.PhaseLongBreak, Running: true}, CaptionSipping},
		{"complete", timer.Snapshot{Phase: domain.PhaseLongBreak, Complete: true}, CaptionComplete},
		{"idle custom", timer.Snapshot{Phase: domain.PhaseCustom}, CaptionCustom},
		{"idle focus", timer.Snapshot{Phase: domain.PhaseFocus}, CaptionIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Caption(tt.snap))
		})
	}
}

func TestFrameFor(t *testing.T) {
	s := timer.Snapshot{
		Phase:          domain.PhaseFocus,
		Label:          "Focus Brew",
		Total:          1500,
		Remaining:      375,
		Running:        true,
		CyclePosition:  2,
		TotalCompleted: 2,
		CompletedToday: 1,
	}

	f := FrameFor(s, domain.RoastDark)

	assert.InDelta(t, 0.75, f.Progress, 1e-9)
	assert.Equal(t, "06:15", f.Clock)
	assert.Equal(t, CaptionBrewing, f.Caption)
	assert.Equal(t, "#3e2723", f.LiquidColor)
	assert.Equal(t, domain.RoastDark, f.Roast)
	assert.Equal(t, 2, f.CyclePosition)
	assert.Equal(t, 2, f.TotalCompleted)
	assert.Equal(t, 1, f.CompletedToday)
	assert.Empty(t, f.NextPhase)
}

func TestFrameFor_CompleteIsFull(t *testing.T) {
	s := timer.Snapshot{
		Phase: domain.PhaseFocus, Total: 1500, Complete: true,
		ChainPending: true, NextPhase: domain.PhaseShortBreak,
	}
	f := FrameFor(s, domain.RoastLight)
	assert.Equal(t, 1.0, f.Progress)
	assert.Equal(t, "00:00", f.Clock)
	assert.Equal(t, domain.PhaseShortBreak, f.NextPhase)
}

func TestFrameFor_ZeroTotal(t *testing.T) {
	f := FrameFor(timer.Snapshot{Phase: domain.PhaseCustom}, domain.RoastMedium)
	assert.Zero(t, f.Progress)
	assert.Equal(t, CaptionCustom, f.Caption)
}

func TestSinkFunc(t *testing.T) {
	var got []Frame
	var sink Sink = SinkFunc(func(f Frame) { got = append(got, f) })
	sink.Render(Frame{Clock: "25:00"})
	assert.Len(t, got, 1)
}
