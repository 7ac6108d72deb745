package formatter

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MugRows is the number of liquid rows inside the mug.
const MugRows = 6

const mugInner = 12

// Mug describes one frame of the mug drawing.
type Mug struct {
	Progress float64
	Running  bool
	Complete bool
	Frame    int // animation step for steam and drips
	Liquid   lipgloss.Style
}

var (
	steamFrames = [2][2]string{
		{"   (  )  (   ", "    )  (  )  "},
		{"    )  (  )  ", "   (  )  (   "},
	}
	dripFrames = [2][2]string{
		{"   \\______/  ", "       '     "},
		{"   \\______/  ", "       .     "},
	}
	handle = [MugRows]string{"", "─╮", " │", " │", "─╯", ""}
)

// FilledRows is how many of the MugRows are drawn with liquid.
func FilledRows(progress float64) int {
	return int(math.Round(clampUnit(progress) * MugRows))
}

// RenderMug draws the mug. Completion shows steam, a running brew shows the
// filter dripping above the rim.
func RenderMug(m Mug) string {
	var b strings.Builder
	blank := strings.Repeat(" ", mugInner+2)

	switch {
	case m.Complete:
		f := steamFrames[m.Frame%2]
		b.WriteString(StyleSteam.Render(f[0]) + "\n")
		b.WriteString(StyleSteam.Render(f[1]) + "\n")
	case m.Running:
		f := dripFrames[m.Frame%2]
		b.WriteString(StyleDim.Render(f[0]) + "\n")
		b.WriteString(m.Liquid.Render(f[1]) + "\n")
	default:
		b.WriteString(blank + "\n" + blank + "\n")
	}

	b.WriteString(StyleRose.Render("╭"+strings.Repeat("─", mugInner)+"╮") + "\n")

	filled := FilledRows(m.Progress)
	if m.Complete {
		filled = MugRows
	}
	for row := 0; row < MugRows; row++ {
		level := MugRows - row // 1 is the bottom row
		var inner string
		switch {
		case level > filled:
			inner = strings.Repeat(" ", mugInner)
		case level == filled:
			inner = m.Liquid.Render(strings.Repeat("≈", mugInner))
		default:
			inner = m.Liquid.Render(strings.Repeat(filledBlock, mugInner))
		}
		b.WriteString(StyleRose.Render("│") + inner + StyleRose.Render("│"+handle[row]) + "\n")
	}

	b.WriteString(StyleRose.Render("╰" + strings.Repeat("─", mugInner) + "╯"))
	return b.String()
}

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(p Palette, title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Roast.Theme().Muted)).
		Padding(1, 2)

	if title != "" {
		return box.Render(p.Title.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return box.Render(content)
}
