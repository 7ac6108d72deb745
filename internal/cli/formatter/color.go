package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

// Fixed colours shared by every roast.
var (
	ColorCream = lipgloss.Color("#fff0f5")
	ColorFoam  = lipgloss.Color("#fce4ec")
	ColorRose  = lipgloss.Color("#f48fb1")
	ColorSteam = lipgloss.Color("#ffffff")
	ColorBean  = lipgloss.Color("#5d4037")
	ColorDim   = lipgloss.Color("#a1887f")
	ColorRed   = lipgloss.Color("#e57373")
)

var (
	StyleDim   = lipgloss.NewStyle().Foreground(ColorDim)
	StyleRose  = lipgloss.NewStyle().Foreground(ColorRose)
	StyleSteam = lipgloss.NewStyle().Foreground(ColorSteam)
	StyleBean  = lipgloss.NewStyle().Foreground(ColorBean)
	StyleRed   = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBold  = lipgloss.NewStyle().Bold(true)
)

// Palette is the set of styles for one roast.
type Palette struct {
	Roast  domain.Roast
	Accent lipgloss.Style
	Text   lipgloss.Style
	Muted  lipgloss.Style
	Liquid lipgloss.Style
	Title  lipgloss.Style

	LiquidColor lipgloss.Color
}

// PaletteFor builds the styles for r.
func PaletteFor(r domain.Roast) Palette {
	th := r.Theme()
	liquid := lipgloss.Color(th.Liquid)
	return Palette{
		Roast:       r,
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color(th.Accent)),
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.Text)),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(th.Muted)),
		Liquid:      lipgloss.NewStyle().Foreground(liquid),
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color(th.Accent)).Bold(true),
		LiquidColor: liquid,
	}
}

// Header renders an upper-cased section title with an underline.
func (p Palette) Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", p.Title.Render(upper), p.Muted.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
