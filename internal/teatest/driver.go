// Package teatest provides a synchronous test driver for bubbletea models.
//
// It replaces tea.Program in tests by calling Update() directly and draining
// returned Cmds. A Cmd that does not return within a few milliseconds (a
// subscription read, a tea.Tick, a cursor blink) is parked instead of
// dropped; Poll and WaitFor deliver its message once it arrives.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth is the safety limit for command draining to prevent infinite loops.
const MaxDrainDepth = 100

// cmdTimeout is how long to wait for a Cmd before parking it.
const cmdTimeout = 10 * time.Millisecond

// DefaultWait bounds WaitFor.
const DefaultWait = 2 * time.Second

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set when tea.QuitMsg is seen during drain. The runtime
	// normally intercepts it, so the model may never handle it itself.
	Quitting bool

	pending []chan tea.Msg
}

// New creates a Driver for the given model and applies options.
// Call DrainInit() after construction to process the model's Init() command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends an initial WindowSizeMsg before any other processing.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// DrainInit executes the model's Init() command and drains all resulting messages.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches a message through Update and drains all resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// ── Key event helpers ────────────────────────────────────────────────────────

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressSpace() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEsc})
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

func (d *Driver) PressTab() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyTab})
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyDown})
}

func (d *Driver) PressBackspace() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyBackspace})
}

// Type sends a string character by character as individual key events.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View returns the full rendered output of the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── Asynchronous delivery ────────────────────────────────────────────────────

// Pending is the number of parked Cmds still running.
func (d *Driver) Pending() int {
	return len(d.pending)
}

// Poll delivers every parked Cmd result that is ready, repeating until none
// is. It never blocks.
func (d *Driver) Poll() {
	d.T.Helper()
	for progressed := true; progressed; {
		progressed = false
		for i := 0; i < len(d.pending); i++ {
			select {
			case msg := <-d.pending[i]:
				d.pending = append(d.pending[:i], d.pending[i+1:]...)
				d.dispatch(msg, 0)
				progressed = true
			default:
				continue
			}
			break // pending changed under us; rescan
		}
	}
}

// WaitFor polls until cond holds, failing the test after DefaultWait.
func (d *Driver) WaitFor(what string, cond func() bool) {
	d.T.Helper()
	deadline := time.Now().Add(DefaultWait)
	for {
		d.Poll()
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			d.T.Fatalf("teatest: timed out waiting for %s\n--- view ---\n%s", what, d.View())
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// WaitForView waits until the rendered view contains substr.
func (d *Driver) WaitForView(substr string) {
	d.T.Helper()
	d.WaitFor(fmt.Sprintf("view to contain %q", substr), func() bool {
		return strings.Contains(d.View(), substr)
	})
}

// ── Command draining ─────────────────────────────────────────────────────────

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		d.dispatch(msg, depth)
	case <-time.After(cmdTimeout):
		d.pending = append(d.pending, ch)
	}
}

func (d *Driver) dispatch(msg tea.Msg, depth int) {
	d.T.Helper()
	if msg == nil || d.Quitting {
		return
	}

	// Cursor blinks chain into more timers and carry nothing worth testing.
	if isCursorBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drainCmd(sub, depth+1)
		}
		return
	}

	if _, isQuit := msg.(tea.QuitMsg); isQuit {
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// isCursorBlink detects the unexported blink messages of bubbles/cursor.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
