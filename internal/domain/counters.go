package domain

import "time"

// CycleLength is the number of Focus completions between long breaks.
const CycleLength = 4

// Counters tracks completed sessions for the lifetime of the process.
// The zero value is ready to use.
type Counters struct {
	total  int
	streak int // Focus completions since the last long break
	day    string
	today  int
}

// RecordSession counts one completed Focus or Custom session.
func (c *Counters) RecordSession(now time.Time) {
	c.total++
	key := dayKey(now)
	if key != c.day {
		c.day = key
		c.today = 0
	}
	c.today++
}

// AdvanceStreak counts a Focus completion toward the next long break.
func (c *Counters) AdvanceStreak() int {
	c.streak++
	return c.streak
}

// ResetStreak starts a new cycle. Called when a long break completes.
func (c *Counters) ResetStreak() {
	c.streak = 0
}

func (c Counters) Total() int  { return c.total }
func (c Counters) Streak() int { return c.streak }

// CyclePosition is the position within the current rotation, in [0, CycleLength).
func (c Counters) CyclePosition() int {
	return c.streak % CycleLength
}

// LongBreakDue reports whether the last Focus completion closed a cycle.
func (c Counters) LongBreakDue() bool {
	return c.streak > 0 && c.streak%CycleLength == 0
}

// UntilLongBreak returns how many Focus completions remain before a long break.
func (c Counters) UntilLongBreak() int {
	return CycleLength - c.CyclePosition()
}

// CompletedOn returns the sessions completed on the local calendar day of now.
func (c Counters) CompletedOn(now time.Time) int {
	if dayKey(now) != c.day {
		return 0
	}
	return c.today
}

func dayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
