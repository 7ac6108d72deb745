package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/brewfocus/internal/cli/formatter"
	"github.com/alexanderramin/brewfocus/internal/domain"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

// phaseKeys maps the number row to the phase selector, in display order.
var phaseKeys = map[string]domain.Phase{
	"1": domain.PhaseFocus,
	"2": domain.PhaseShortBreak,
	"3": domain.PhaseLongBreak,
	"4": domain.PhaseCustom,
}

// timerView is the home screen: the mug, the clock and the controls.
type timerView struct {
	state *SharedState
}

func newTimerView(state *SharedState) *timerView {
	return &timerView{state: state}
}

func (v *timerView) ID() ViewID    { return ViewTimer }
func (v *timerView) Title() string { return "" }

func (v *timerView) ShortHelp() []key.Binding {
	toggle := "start"
	if v.state.Snapshot.Running {
		toggle = "pause"
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", toggle)),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "phase")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "custom time")),
		key.NewBinding(key.WithKeys("b", "tab"), key.WithHelp("b/tab", "roast")),
	}
}

func (v *timerView) Init() tea.Cmd {
	return nil
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *timerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	sess := v.state.Session

	switch s := keyMsg.String(); s {
	case " ", "enter", "p":
		v.state.Notice = ""
		return v, doCommand(sess, timer.Toggle())
	case "r":
		v.state.Notice = ""
		return v, doCommand(sess, timer.Reset())
	case "1", "2", "3", "4":
		v.state.Notice = ""
		return v, doCommand(sess, timer.SelectPhase(phaseKeys[s]))
	case "c":
		return v, v.editCustom()
	case "b":
		return v, v.pickRoast()
	case "tab":
		next := string(v.state.Roast.Next())
		return v, func() tea.Msg { return roastMsg{roast: next} }
	}
	return v, nil
}

// editCustom opens the custom duration form. Edits are refused while a
// brew is running or finished.
func (v *timerView) editCustom() tea.Cmd {
	snap := v.state.Snapshot
	if snap.Running || snap.Complete {
		return notice("Pause or reset before changing the custom time.")
	}

	hours := strconv.Itoa(snap.CustomSeconds / 3600)
	minutes := strconv.Itoa((snap.CustomSeconds % 3600) / 60)
	form := wizardCustomDuration(v.state.Palette, &hours, &minutes)

	sess := v.state.Session
	return startWizardCmd(v.state, "Custom Time", form, func() tea.Cmd {
		return applyCustomDuration(sess, hours, minutes)
	})
}

func (v *timerView) pickRoast() tea.Cmd {
	roast := string(v.state.Roast)
	form := wizardSelectRoast(v.state.Palette, &roast)
	return startWizardCmd(v.state, "Roast", form, func() tea.Cmd {
		return func() tea.Msg { return roastMsg{roast: roast} }
	})
}

// applyCustomDuration parses the form fields, applies hours then minutes
// and reports the final state.
func applyCustomDuration(sess *timer.Session, hoursText, minutesText string) tea.Cmd {
	hours := domain.ParseClockField(hoursText, domain.MaxCustomHours)
	minutes := domain.ParseClockField(minutesText, domain.MaxCustomMinutes)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if _, err := sess.Do(ctx, timer.SetCustomHours(hours)); err != nil {
			return noticeMsg{text: "timer unavailable: " + err.Error()}
		}
		snap, err := sess.Do(ctx, timer.SetCustomMinutes(minutes))
		if err != nil {
			return noticeMsg{text: "timer unavailable: " + err.Error()}
		}
		return snapshotMsg{snap: snap}
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

func (v *timerView) View() string {
	st := v.state
	p := st.Palette
	f := st.CurrentFrame()

	var b strings.Builder

	b.WriteString(v.renderTabs() + "\n\n")

	b.WriteString(formatter.RenderMug(formatter.Mug{
		Progress: f.Progress,
		Running:  f.Running,
		Complete: f.Complete,
		Frame:    st.Frame,
		Liquid:   p.Liquid,
	}))
	b.WriteString("\n\n")

	b.WriteString(p.Title.Render(f.Clock) + "  " + p.Muted.Render(f.Label) + "\n")
	b.WriteString(p.Text.Render(f.Caption) + "\n")
	if f.Phase == domain.PhaseCustom && !f.Running && !f.Complete {
		b.WriteString(formatter.Dim(fmt.Sprintf("custom: %dh %02dm", st.Snapshot.CustomSeconds/3600, (st.Snapshot.CustomSeconds%3600)/60)) + "\n")
	}
	if f.NextPhase != "" {
		b.WriteString(formatter.Dim("next up: "+f.NextPhase.Label()) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(formatter.RenderCycle(f.CyclePosition, domain.CycleLength, p.Accent))
	b.WriteString("  " + formatter.Dim(fmt.Sprintf("%d brewed today · %d total", f.CompletedToday, f.TotalCompleted)))

	switch {
	case st.Brewing:
		b.WriteString("\n\n" + st.Spinner.View() + " " + formatter.Dim("the barista is thinking..."))
	case st.Suggestion != "":
		b.WriteString("\n\n" + formatter.StyleRose.Render("☕ "+st.Suggestion))
	}
	if st.Notice != "" {
		b.WriteString("\n\n" + formatter.StyleRed.Render(st.Notice))
	}

	return formatter.RenderBox(p, "", b.String())
}

// renderTabs draws the phase selector with the current phase highlighted.
func (v *timerView) renderTabs() string {
	p := v.state.Palette
	tabs := make([]string, 0, len(domain.Phases))
	for i, ph := range domain.Phases {
		label := fmt.Sprintf("%d %s", i+1, ph.Label())
		if ph == v.state.Snapshot.Phase {
			tabs = append(tabs, p.Accent.Bold(true).Underline(true).Render(label))
		} else {
			tabs = append(tabs, p.Muted.Render(label))
		}
	}
	return strings.Join(tabs, "   ")
}
