package eos

import (
	"math"
	"strings"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/thermo"
	"github.com/scienceol/solvation/pkg/repo/model"
)

// curve is the saturation model of one fluid. Callers guarantee
// lowT() <= T < critical().T.
type curve interface {
	critical() thermo.CriticalPoint
	lowT() float64
	pressure(T float64) float64
	liquid(T float64) float64
	vapor(T float64) (float64, error)
}

type provider struct {
	curves map[string]curve
}

// New builds a provider over the given fluid table.
func New(fluids []*model.Fluid) (thermo.Provider, error) {
	p := &provider{curves: make(map[string]curve, len(fluids))}
	for _, f := range fluids {
		c, err := newCurve(f)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(f.Name)
		if _, ok := p.curves[key]; ok {
			return nil, code.LoadDatasetErr.WithMsgf("duplicate fluid %q", f.Name)
		}
		p.curves[key] = c
	}
	return p, nil
}

func newCurve(f *model.Fluid) (curve, error) {
	if f.Tc <= 0 || f.Pc <= 0 {
		return nil, code.MissingData.WithMsgf("fluid %q needs positive tc and pc", f.Name)
	}
	switch f.Model {
	case model.FluidAncillary:
		return newAncillary(f)
	case model.FluidCorrespondingStates:
		return newCorrespondingStates(f)
	case model.FluidTabulated:
		return newTabulated(f)
	default:
		return nil, code.LoadDatasetErr.WithMsgf("fluid %q has unknown model %q", f.Name, f.Model)
	}
}

func (p *provider) lookup(T float64, fluid string) (curve, error) {
	c, ok := p.curves[strings.ToLower(fluid)]
	if !ok {
		return nil, code.MissingData.WithMsgf("no saturation model for fluid %q", fluid)
	}
	if math.IsNaN(T) || T < c.lowT() || T >= c.critical().T {
		return nil, code.OutOfRange.WithMsgf("%s saturation curve covers %.2f to %.3f K, got %g K",
			fluid, c.lowT(), c.critical().T, T)
	}
	return c, nil
}

func (p *provider) CriticalPoint(fluid string) (thermo.CriticalPoint, error) {
	c, ok := p.curves[strings.ToLower(fluid)]
	if !ok {
		return thermo.CriticalPoint{}, code.MissingData.WithMsgf("no saturation model for fluid %q", fluid)
	}
	return c.critical(), nil
}

func (p *provider) SaturationPressure(T float64, fluid string) (float64, error) {
	c, err := p.lookup(T, fluid)
	if err != nil {
		return 0, err
	}
	return c.pressure(T), nil
}

func (p *provider) SaturatedLiquidDensity(T float64, fluid string) (float64, error) {
	c, err := p.lookup(T, fluid)
	if err != nil {
		return 0, err
	}
	return c.liquid(T), nil
}

func (p *provider) SaturatedVaporDensity(T float64, fluid string) (float64, error) {
	c, err := p.lookup(T, fluid)
	if err != nil {
		return 0, err
	}
	return c.vapor(T)
}

func sumTerms(terms []model.Term, tau float64) float64 {
	var s float64
	for _, t := range terms {
		s += t.Coef * math.Pow(tau, t.Exp)
	}
	return s
}
