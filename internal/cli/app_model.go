package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/brewfocus/internal/cli/formatter"
	"github.com/alexanderramin/brewfocus/internal/domain"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack over a single timer session.
type appModel struct {
	state     *SharedState
	viewStack []View
	sub       <-chan timer.Snapshot
	autostart bool
	quitting  bool
}

func newAppModel(app *App, sess *timer.Session, roast domain.Roast, autostart bool) appModel {
	state := newSharedState(app, sess, roast)
	m := appModel{
		state:     state,
		sub:       sess.Subscribe(1),
		autostart: autostart,
	}
	m.viewStack = []View{newTimerView(state)}
	return m
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForSnapshot(m.sub),
		nextFrame(),
		doCommand(m.state.Session, timer.Inspect()),
	}
	if m.autostart {
		cmds = append(cmds, doCommand(m.state.Session, timer.Start()))
	}
	if v := m.activeView(); v != nil {
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.pop()
		return m, nil

	case wizardCompleteMsg:
		// Pop the form and run the follow-up in one step.
		m.pop()
		return m, msg.nextCmd

	case noticeMsg:
		m.state.Notice = msg.text
		return m, nil

	case roastMsg:
		r, err := domain.ParseRoast(msg.roast)
		if err != nil {
			m.state.Notice = err.Error()
			return m, nil
		}
		m.state.SetRoast(r)
		return m, nil

	case snapshotMsg:
		fetch := m.applySnapshot(msg.snap)
		if !msg.live {
			return m, fetch
		}
		return m, tea.Batch(waitForSnapshot(m.sub), fetch)

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case suggestionMsg:
		if m.state.suggest.Current(msg.seq) {
			m.state.Suggestion = msg.text
			m.state.Brewing = false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.state.Brewing {
			return m, nil
		}
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case frameMsg:
		m.state.Frame++
		return m, nextFrame()
	}

	return m.forward(msg)
}

// applySnapshot stores s unless a newer state is already shown, and starts
// a barista fetch when the tracker asks for one.
func (m *appModel) applySnapshot(s timer.Snapshot) tea.Cmd {
	if s.Version < m.state.Snapshot.Version {
		return nil
	}
	m.state.Snapshot = s

	fetch, seq := m.state.suggest.Observe(s)
	if !s.ShowSuggestion() {
		m.state.Suggestion = ""
		m.state.Brewing = false
	}
	if !fetch {
		return nil
	}
	m.state.Suggestion = ""
	m.state.Brewing = true
	return tea.Batch(fetchSuggestion(m.state.App.Barista, seq, s.IsBreak()), m.state.Spinner.Tick)
}

func (m *appModel) pop() {
	if len(m.viewStack) > 1 {
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
	}
}

func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Forms receive every key, including q.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		return m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		m.pop()
		return m, nil
	}

	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	p := m.state.Palette
	title := p.Title.Render("brewfocus")

	// Breadcrumb from view stack
	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	breadcrumb := ""
	if len(crumbs) > 0 {
		breadcrumb = " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	header := title + breadcrumb + "  " + formatter.Dim("[") + p.Accent.Render(m.state.Roast.Label()) + formatter.Dim("]")

	sep := p.Muted.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: back"))
	} else {
		hints = append(hints, formatter.Dim("q: quit"))
	}

	bar := strings.Join(hints, "  ")
	sep := m.state.Palette.Muted.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

// viewCapturesInput returns true if the active view has its own text input
// and should receive all key events.
func viewCapturesInput(v View) bool {
	return v != nil && v.ID() == ViewForm
}
