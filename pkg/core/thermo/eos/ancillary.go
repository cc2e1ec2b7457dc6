package eos

import (
	"math"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/thermo"
	"github.com/scienceol/solvation/pkg/repo/model"
)

// ancillary evaluates Wagner-type ancillary equations of a reference EOS:
//
//	ln(p/pc)        = (Tc/T) * sum a_i tau^t_i
//	rho_l/rho_c     = 1 + sum b_i tau^t_i
//	ln(rho_v/rho_c) = sum c_i tau^t_i
type ancillary struct {
	crit                     thermo.CriticalPoint
	pressureT, liquidT, vapT []model.Term
}

func newAncillary(f *model.Fluid) (*ancillary, error) {
	if f.RhoC <= 0 {
		return nil, code.MissingData.WithMsgf("fluid %q needs rho_c for ancillary equations", f.Name)
	}
	if len(f.Pressure) == 0 || len(f.LiquidDensity) == 0 || len(f.VaporDensity) == 0 {
		return nil, code.MissingData.WithMsgf("fluid %q lacks ancillary coefficients", f.Name)
	}
	return &ancillary{
		crit:      thermo.CriticalPoint{T: f.Tc, P: f.Pc, RhoMolar: f.RhoC},
		pressureT: f.Pressure,
		liquidT:   f.LiquidDensity,
		vapT:      f.VaporDensity,
	}, nil
}

func (a *ancillary) critical() thermo.CriticalPoint { return a.crit }

func (a *ancillary) lowT() float64 { return math.SmallestNonzeroFloat64 }

func (a *ancillary) pressure(T float64) float64 {
	tau := 1 - T/a.crit.T
	return a.crit.P * math.Exp(a.crit.T/T*sumTerms(a.pressureT, tau))
}

func (a *ancillary) liquid(T float64) float64 {
	tau := 1 - T/a.crit.T
	return a.crit.RhoMolar * (1 + sumTerms(a.liquidT, tau))
}

func (a *ancillary) vapor(T float64) (float64, error) {
	tau := 1 - T/a.crit.T
	return a.crit.RhoMolar * math.Exp(sumTerms(a.vapT, tau)), nil
}
