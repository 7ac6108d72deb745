package cli

import (
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/alexanderramin/brewfocus/internal/cli/formatter"
	"github.com/alexanderramin/brewfocus/internal/domain"
	"github.com/alexanderramin/brewfocus/internal/present"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

// SharedState holds what every view reads, shared via pointer.
type SharedState struct {
	App     *App
	Session *timer.Session

	Snapshot timer.Snapshot
	Roast    domain.Roast
	Palette  formatter.Palette

	Suggestion string
	Brewing    bool // a suggestion fetch is in flight
	Spinner    spinner.Model
	Notice     string
	Frame      int // animation step

	// Terminal dimensions
	Width  int
	Height int

	suggest suggestionTracker
}

func newSharedState(app *App, sess *timer.Session, roast domain.Roast) *SharedState {
	return &SharedState{
		App:     app,
		Session: sess,
		Roast:   roast,
		Palette: formatter.PaletteFor(roast),
		Spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StyleRose)),
	}
}

// SetRoast switches the theme. It never touches the timer.
func (s *SharedState) SetRoast(r domain.Roast) {
	s.Roast = r
	s.Palette = formatter.PaletteFor(r)
}

// CurrentFrame returns the render frame for the current snapshot.
func (s *SharedState) CurrentFrame() present.Frame {
	return present.FrameFor(s.Snapshot, s.Roast)
}

// ContentHeight returns the rows left for view content after the header
// (2 lines) and status bar (2 lines).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}

// suggestionTracker decides when a new barista message is needed: on
// entering the running-or-complete state, and whenever the break/focus
// flavour changes while in it.
type suggestionTracker struct {
	showing bool
	isBreak bool
	seq     int
}

// Observe reports whether a fetch should start for s. When it returns true,
// seq identifies the new request.
func (t *suggestionTracker) Observe(s timer.Snapshot) (fetch bool, seq int) {
	if !s.ShowSuggestion() {
		t.showing = false
		return false, t.seq
	}
	if t.showing && t.isBreak == s.IsBreak() {
		return false, t.seq
	}
	t.showing = true
	t.isBreak = s.IsBreak()
	t.seq++
	return true, t.seq
}

// Current reports whether a reply with seq is still wanted.
func (t *suggestionTracker) Current(seq int) bool {
	return t.showing && seq == t.seq
}
