package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/brewfocus/internal/barista"
	"github.com/alexanderramin/brewfocus/internal/clock"
	"github.com/alexanderramin/brewfocus/internal/config"
	"github.com/alexanderramin/brewfocus/internal/domain"
	"github.com/alexanderramin/brewfocus/internal/logging"
	"github.com/alexanderramin/brewfocus/internal/teatest"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

const (
	testQuote = "Espresso yourself."
	testIdea  = "Stretch while the kettle sings."
)

// testApp wires an App on a fake clock with a canned barista.
func testApp(t *testing.T) (*App, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(t0)
	return &App{
		Config: config.Default(),
		Logger: logging.Discard(),
		Barista: barista.SuggesterFunc(func(_ context.Context, isBreak bool) string {
			if isBreak {
				return testIdea
			}
			return testQuote
		}),
		Clock:         clk,
		IsInteractive: func() bool { return false },
	}, clk
}

// TestDriver wraps teatest.Driver with access to appModel internals (view
// stack, shared state) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
	Clock *clock.Fake
}

// NewTestDriver starts a session for app, builds the appModel around it,
// sets the terminal size and drains Init(). The session stops at cleanup.
func NewTestDriver(t *testing.T, app *App, clk *clock.Fake) *TestDriver {
	t.Helper()

	sess := timer.NewSession(timer.Config{
		Clock:         clk,
		TickInterval:  app.Config.TickInterval,
		CustomSeconds: app.Config.CustomSeconds,
		Logger:        app.Logger,
	})
	stop := startSession(context.Background(), sess)
	t.Cleanup(stop)

	m := newAppModel(app, sess, domain.RoastLight, false)
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()

	td := &TestDriver{Driver: d, Clock: clk}
	td.WaitForState("initial snapshot", func(s timer.Snapshot) bool { return s.Phase != "" })
	return td
}

// ── High-level helpers ───────────────────────────────────────────────────────

// WaitForState polls until the shown snapshot satisfies cond.
func (d *TestDriver) WaitForState(what string, cond func(timer.Snapshot) bool) {
	d.T.Helper()
	d.WaitFor(what, func() bool { return cond(d.State().Snapshot) })
}

// Start presses space and waits until the timer runs.
func (d *TestDriver) Start() {
	d.T.Helper()
	d.PressSpace()
	d.WaitForState("timer running", func(s timer.Snapshot) bool { return s.Running })
}

// AdvanceTo moves the fake clock one second at a time until the shown
// remaining time reaches want.
func (d *TestDriver) AdvanceTo(want int) {
	d.T.Helper()
	deadline := time.Now().Add(teatest.DefaultWait)
	for d.State().Snapshot.Remaining > want {
		require.False(d.T, time.Now().After(deadline), "remaining stuck at %d", d.State().Snapshot.Remaining)
		d.Clock.Advance(time.Second)
		before := d.State().Snapshot.Version
		d.WaitFor("next tick", func() bool {
			return d.State().Snapshot.Version != before || d.State().Snapshot.Remaining <= want
		})
	}
}

// ── Inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}
