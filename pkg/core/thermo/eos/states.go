package eos

import (
	"math"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/thermo"
	"github.com/scienceol/solvation/pkg/repo/model"
)

// correspondingStates needs only tc, pc, the acentric factor and the Rackett
// compressibility. Vapor pressure is Lee-Kesler, liquid volume is the
// Spencer-Danner form of Rackett, vapor density comes from the truncated
// virial equation with the Abbott second virial coefficient.
type correspondingStates struct {
	crit  thermo.CriticalPoint
	omega float64
	zra   float64
}

func newCorrespondingStates(f *model.Fluid) (*correspondingStates, error) {
	if f.RackettZRA <= 0 || f.RackettZRA >= 1 {
		return nil, code.MissingData.WithMsgf("fluid %q needs rackett_zra in (0, 1)", f.Name)
	}
	rhoC := f.Pc / (thermo.R * f.Tc * f.RackettZRA)
	return &correspondingStates{
		crit:  thermo.CriticalPoint{T: f.Tc, P: f.Pc, RhoMolar: rhoC},
		omega: f.Acentric,
		zra:   f.RackettZRA,
	}, nil
}

func (c *correspondingStates) critical() thermo.CriticalPoint { return c.crit }

func (c *correspondingStates) lowT() float64 { return math.SmallestNonzeroFloat64 }

func (c *correspondingStates) pressure(T float64) float64 {
	tr := T / c.crit.T
	tr6 := math.Pow(tr, 6)
	lnTr := math.Log(tr)
	f0 := 5.92714 - 6.09648/tr - 1.28862*lnTr + 0.169347*tr6
	f1 := 15.2518 - 15.6875/tr - 13.4721*lnTr + 0.43577*tr6
	return c.crit.P * math.Exp(f0+c.omega*f1)
}

func (c *correspondingStates) liquid(T float64) float64 {
	tr := T / c.crit.T
	v := thermo.R * c.crit.T / c.crit.P * math.Pow(c.zra, 1+math.Pow(1-tr, 2.0/7.0))
	return 1 / v
}

func (c *correspondingStates) vapor(T float64) (float64, error) {
	tr := T / c.crit.T
	p := c.pressure(T)
	b0 := 0.083 - 0.422/math.Pow(tr, 1.6)
	b1 := 0.139 - 0.172/math.Pow(tr, 4.2)
	z := 1 + (b0+c.omega*b1)*(p/c.crit.P)/tr
	if z <= 0 {
		return 0, code.PropertyErr.WithMsgf("virial compressibility %.3f is not physical at %.2f K", z, T)
	}
	return p / (z * thermo.R * T), nil
}
