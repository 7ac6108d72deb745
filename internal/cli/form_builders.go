package cli

import (
	"strconv"

	"github.com/charmbracelet/huh"
)

// clockInput returns a huh.Input for an hour or minute field. The value is
// pre-filled and doubles as the placeholder. Any text is accepted: values
// out of range clamp to 0..max and anything non-numeric counts as 0.
func clockInput(title string, max int, value *string) *huh.Input {
	placeholder := *value
	if placeholder == "" {
		placeholder = "0"
	}
	return huh.NewInput().
		Title(title + " (0-" + strconv.Itoa(max) + ")").
		Placeholder(placeholder).
		Value(value)
}
