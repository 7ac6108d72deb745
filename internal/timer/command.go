package timer

import (
	"fmt"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

// CommandKind identifies a user command.
type CommandKind int

const (
	CmdInspect CommandKind = iota
	CmdStart
	CmdPause
	CmdToggle
	CmdReset
	CmdSelectPhase
	CmdSetCustomHours
	CmdSetCustomMinutes
)

func (k CommandKind) String() string {
	switch k {
	case CmdInspect:
		return "inspect"
	case CmdStart:
		return "start"
	case CmdPause:
		return "pause"
	case CmdToggle:
		return "toggle"
	case CmdReset:
		return "reset"
	case CmdSelectPhase:
		return "select_phase"
	case CmdSetCustomHours:
		return "set_custom_hours"
	case CmdSetCustomMinutes:
		return "set_custom_minutes"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command is a request to the session. Phase is used by CmdSelectPhase and
// Value by the custom duration commands.
type Command struct {
	Kind  CommandKind
	Phase domain.Phase
	Value int
}

func Inspect() Command                   { return Command{Kind: CmdInspect} }
func Start() Command                     { return Command{Kind: CmdStart} }
func Pause() Command                     { return Command{Kind: CmdPause} }
func Toggle() Command                    { return Command{Kind: CmdToggle} }
func Reset() Command                     { return Command{Kind: CmdReset} }
func SelectPhase(p domain.Phase) Command { return Command{Kind: CmdSelectPhase, Phase: p} }
func SetCustomHours(h int) Command       { return Command{Kind: CmdSetCustomHours, Value: h} }
func SetCustomMinutes(m int) Command     { return Command{Kind: CmdSetCustomMinutes, Value: m} }

// apply runs the command against m and reports whether the state changed.
func (c Command) apply(m *Machine) bool {
	switch c.Kind {
	case CmdStart:
		return m.Start()
	case CmdPause:
		return m.Pause()
	case CmdToggle:
		return m.Toggle()
	case CmdReset:
		return m.Reset()
	case CmdSelectPhase:
		return m.ChangeMode(c.Phase)
	case CmdSetCustomHours:
		return m.SetCustomHours(c.Value)
	case CmdSetCustomMinutes:
		return m.SetCustomMinutes(c.Value)
	default:
		return false
	}
}
