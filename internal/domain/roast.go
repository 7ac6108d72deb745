package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRoast is returned when a roast name cannot be parsed.
var ErrUnknownRoast = errors.New("unknown roast")

// Roast selects the colour theme. It has no effect on the timer.
type Roast string

const (
	RoastLight  Roast = "light"
	RoastMedium Roast = "medium"
	RoastDark   Roast = "dark"
)

var Roasts = []Roast{RoastLight, RoastMedium, RoastDark}

// RoastTheme holds the hex colours used to draw a roast.
type RoastTheme struct {
	Accent string
	Text   string
	Muted  string
	Liquid string
}

var roastThemes = map[Roast]RoastTheme{
	RoastLight:  {Accent: "#96664e", Text: "#664234", Muted: "#d2a58e", Liquid: "#b5836a"},
	RoastMedium: {Accent: "#90604c", Text: "#553325", Muted: "#c09a84", Liquid: "#7d523e"},
	RoastDark:   {Accent: "#cbb0a1", Text: "#ede0d8", Muted: "#7c6052", Liquid: "#3e2723"},
}

func ParseRoast(s string) (Roast, error) {
	r := Roast(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roastThemes[r]; !ok {
		return "", fmt.Errorf("%w: %q (want light, medium or dark)", ErrUnknownRoast, s)
	}
	return r, nil
}

// Theme returns the palette for r, falling back to light.
func (r Roast) Theme() RoastTheme {
	return roastThemes[r.orDefault()]
}

// Label is the display name, e.g. "Medium Roast".
func (r Roast) Label() string {
	name := string(r.orDefault())
	return strings.ToUpper(name[:1]) + name[1:] + " Roast"
}

func (r Roast) orDefault() Roast {
	if _, ok := roastThemes[r]; ok {
		return r
	}
	return RoastLight
}

// Next cycles light -> medium -> dark -> light.
func (r Roast) Next() Roast {
	for i, candidate := range Roasts {
		if candidate == r {
			return Roasts[(i+1)%len(Roasts)]
		}
	}
	return RoastLight
}
