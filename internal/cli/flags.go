package cli

import (
	"github.com/spf13/pflag"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

var (
	_ pflag.Value = (*phaseValue)(nil)
	_ pflag.Value = (*roastValue)(nil)
)

// phaseValue is a pflag.Value accepting the phase names and aliases that
// domain.ParsePhase understands.
type phaseValue struct {
	p *domain.Phase
}

func newPhaseValue(p *domain.Phase) *phaseValue {
	if *p == "" {
		*p = domain.PhaseFocus
	}
	return &phaseValue{p: p}
}

func (v *phaseValue) String() string { return string(*v.p) }
func (v *phaseValue) Type() string   { return "phase" }

func (v *phaseValue) Set(s string) error {
	p, err := domain.ParsePhase(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

// roastValue is a pflag.Value for light, medium or dark.
type roastValue struct {
	r *domain.Roast
}

func newRoastValue(r *domain.Roast) *roastValue {
	if *r == "" {
		*r = domain.RoastLight
	}
	return &roastValue{r: r}
}

func (v *roastValue) String() string { return string(*v.r) }
func (v *roastValue) Type() string   { return "roast" }

func (v *roastValue) Set(s string) error {
	r, err := domain.ParseRoast(s)
	if err != nil {
		return err
	}
	*v.r = r
	return nil
}
