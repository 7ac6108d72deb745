package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45% with the filled part in
// style.
func RenderProgress(pct float64, width int, style lipgloss.Style) string {
	pct = clampUnit(pct)
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := style.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))

	return fmt.Sprintf("[%s] %3.0f%%", bar, pct*100)
}

// RenderCycle renders the position within a focus cycle as beans, e.g.
// ●●○○ for two of four.
func RenderCycle(position, length int, style lipgloss.Style) string {
	if length <= 0 {
		return ""
	}
	if position < 0 {
		position = 0
	}
	if position > length {
		position = length
	}
	return style.Render(strings.Repeat("●", position)) + StyleDim.Render(strings.Repeat("○", length-position))
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
