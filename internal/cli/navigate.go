package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/brewfocus/internal/barista"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg returns to the previous view.
type popViewMsg struct{}

// wizardCompleteMsg is sent when a form completes or is cancelled. The
// appModel pops the form and then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// noticeMsg replaces the one-line notice under the timer.
type noticeMsg struct {
	text string
}

// snapshotMsg carries a timer state published by the session or returned
// from a command. live marks snapshots read from the subscription.
type snapshotMsg struct {
	snap timer.Snapshot
	live bool
}

// sessionClosedMsg means the subscription channel was closed.
type sessionClosedMsg struct{}

// suggestionMsg carries a barista reply. seq identifies the request so a
// slow reply for an old flavour is dropped.
type suggestionMsg struct {
	seq  int
	text string
}

// frameMsg advances the steam and drip animation.
type frameMsg struct{}

// roastMsg changes the colour theme.
type roastMsg struct {
	roast string
}

const (
	frameInterval  = 400 * time.Millisecond
	suggestTimeout = 15 * time.Second
	commandTimeout = 2 * time.Second
)

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

// waitForSnapshot blocks on the subscription until the next publish.
func waitForSnapshot(sub <-chan timer.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub
		if !ok {
			return sessionClosedMsg{}
		}
		return snapshotMsg{snap: snap, live: true}
	}
}

// doCommand sends cmd to the session and reports the resulting snapshot.
func doCommand(sess *timer.Session, cmd timer.Command) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		snap, err := sess.Do(ctx, cmd)
		if err != nil {
			return noticeMsg{text: "timer unavailable: " + err.Error()}
		}
		return snapshotMsg{snap: snap}
	}
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// fetchSuggestion asks the barista for a message. It never fails: the
// barista substitutes a fallback text on errors.
func fetchSuggestion(s barista.Suggester, seq int, isBreak bool) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return suggestionMsg{seq: seq, text: barista.DisabledMessage}
		}
		ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
		defer cancel()
		return suggestionMsg{seq: seq, text: s.Suggest(ctx, isBreak)}
	}
}
