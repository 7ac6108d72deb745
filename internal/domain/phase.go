package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownPhase is returned when a phase name cannot be parsed.
var ErrUnknownPhase = errors.New("unknown phase")

type Phase string

const (
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
	PhaseCustom     Phase = "custom"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseFocus, PhaseShortBreak, PhaseLongBreak, PhaseCustom}

const (
	FocusSeconds         = 25 * 60
	ShortBreakSeconds    = 5 * 60
	LongBreakSeconds     = 15 * 60
	DefaultCustomSeconds = 20 * 60

	MaxCustomHours   = 23
	MaxCustomMinutes = 59
)

var phaseLabels = map[Phase]string{
	PhaseFocus:      "Focus Brew",
	PhaseShortBreak: "Sip Break",
	PhaseLongBreak:  "Refill Break",
	PhaseCustom:     "Custom",
}

func (p Phase) Valid() bool {
	_, ok := phaseLabels[p]
	return ok
}

// IsBreak reports whether the phase is one of the two breaks.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Label returns the display label.
func (p Phase) Label() string {
	if l, ok := phaseLabels[p]; ok {
		return l
	}
	return string(p)
}

// ParsePhase accepts the canonical names plus a few short aliases.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focus", "work":
		return PhaseFocus, nil
	case "short", "short_break", "shortbreak", "short-break":
		return PhaseShortBreak, nil
	case "long", "long_break", "longbreak", "long-break":
		return PhaseLongBreak, nil
	case "custom":
		return PhaseCustom, nil
	}
	return "", fmt.Errorf("%w: %q (want focus, short, long or custom)", ErrUnknownPhase, s)
}

// PhaseConfig is one row of the phase catalog.
type PhaseConfig struct {
	Phase   Phase
	Seconds int
	Label   string
}

// Catalog maps phases to their durations. Only the Custom duration can change.
type Catalog struct {
	customSeconds int
}

// NewCatalog creates a catalog with the given custom duration, clamped to
// 0..23h59m and truncated to whole minutes.
func NewCatalog(customSeconds int) *Catalog {
	secs := clamp(customSeconds, 0, MaxCustomHours*3600+MaxCustomMinutes*60)
	return &Catalog{customSeconds: secs / 60 * 60}
}

// Seconds returns the nominal duration of p.
func (c *Catalog) Seconds(p Phase) int {
	switch p {
	case PhaseFocus:
		return FocusSeconds
	case PhaseShortBreak:
		return ShortBreakSeconds
	case PhaseLongBreak:
		return LongBreakSeconds
	case PhaseCustom:
		return c.customSeconds
	}
	return 0
}

func (c *Catalog) Lookup(p Phase) PhaseConfig {
	return PhaseConfig{Phase: p, Seconds: c.Seconds(p), Label: p.Label()}
}

// All returns the catalog rows in display order.
func (c *Catalog) All() []PhaseConfig {
	rows := make([]PhaseConfig, 0, len(Phases))
	for _, p := range Phases {
		rows = append(rows, c.Lookup(p))
	}
	return rows
}

func (c *Catalog) CustomSeconds() int { return c.customSeconds }
func (c *Catalog) CustomHours() int   { return c.customSeconds / 3600 }
func (c *Catalog) CustomMinutes() int { return (c.customSeconds % 3600) / 60 }

// SetCustomHours replaces the hour part of the custom duration and returns
// the new total in seconds.
func (c *Catalog) SetCustomHours(h int) int {
	c.customSeconds = ClampHours(h)*3600 + c.CustomMinutes()*60
	return c.customSeconds
}

// SetCustomMinutes replaces the minute part of the custom duration and
// returns the new total in seconds.
func (c *Catalog) SetCustomMinutes(m int) int {
	c.customSeconds = c.CustomHours()*3600 + ClampMinutes(m)*60
	return c.customSeconds
}

func ClampHours(h int) int   { return clamp(h, 0, MaxCustomHours) }
func ClampMinutes(m int) int { return clamp(m, 0, MaxCustomMinutes) }

// ParseClockField converts user text into a clamped hour or minute value.
// Anything that is not an integer counts as 0.
func ParseClockField(s string, max int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return clamp(v, 0, max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
