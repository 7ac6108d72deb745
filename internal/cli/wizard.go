package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/brewfocus/internal/cli/formatter"
	"github.com/alexanderramin/brewfocus/internal/domain"
)

// brewHuhTheme returns a huh theme drawn from the roast palette.
func brewHuhTheme(p formatter.Palette) *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: roast accent
	t.Focused.Title = p.Accent.Bold(true)
	t.Focused.SelectSelector = p.Accent
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(p.LiquidColor)
	t.Focused.UnselectedOption = p.Text
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorCream).Background(p.LiquidColor).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = p.Accent
	t.Focused.TextInput.Prompt = p.Accent
	t.Focused.TextInput.Text = p.Text
	t.Focused.TextInput.Placeholder = p.Muted
	t.Focused.Description = p.Muted

	// Blurred state: dimmed
	t.Blurred.Title = p.Muted
	t.Blurred.SelectSelector = p.Muted
	t.Blurred.SelectedOption = p.Muted
	t.Blurred.UnselectedOption = p.Muted
	t.Blurred.TextInput.Prompt = p.Muted
	t.Blurred.TextInput.Text = p.Muted

	return t
}

// wizardCustomDuration creates a form for the custom brew length. The
// inputs start at the current values.
func wizardCustomDuration(p formatter.Palette, hours, minutes *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			clockInput("Hours", domain.MaxCustomHours, hours),
			clockInput("Minutes", domain.MaxCustomMinutes, minutes),
		),
	).WithTheme(brewHuhTheme(p)).WithShowHelp(false)
}

// wizardSelectRoast creates a form to pick the colour theme.
func wizardSelectRoast(p formatter.Palette, result *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(domain.Roasts))
	for _, r := range domain.Roasts {
		options = append(options, huh.NewOption(r.Label(), string(r)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Roast").
				Options(options...).
				Value(result),
		),
	).WithTheme(brewHuhTheme(p)).WithShowHelp(false)
}
