package eos

import (
	"math"
	"sort"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/thermo"
	"github.com/scienceol/solvation/pkg/repo/model"
	"gonum.org/v1/gonum/interp"
)

// tabulated interpolates ln p and ln rho_v linearly in 1/T and rho_l linearly
// in T between saturation rows.
type tabulated struct {
	crit   thermo.CriticalPoint
	lowest float64
	lnP    interp.PiecewiseLinear
	lnRhoV interp.PiecewiseLinear
	rhoL   interp.PiecewiseLinear
}

func newTabulated(f *model.Fluid) (*tabulated, error) {
	if len(f.Table) < 2 {
		return nil, code.MissingData.WithMsgf("fluid %q needs at least two saturation rows", f.Name)
	}
	rows := make([]model.SaturationPoint, len(f.Table))
	copy(rows, f.Table)
	sort.Slice(rows, func(i, j int) bool { return rows[i].T < rows[j].T })
	for i, r := range rows {
		if r.P <= 0 || r.RhoLiquid <= 0 || r.RhoVapor <= 0 {
			return nil, code.LoadDatasetErr.WithMsgf("fluid %q row %d has non-positive values", f.Name, i)
		}
		if i > 0 && r.T == rows[i-1].T {
			return nil, code.LoadDatasetErr.WithMsgf("fluid %q repeats T=%g", f.Name, r.T)
		}
	}

	n := len(rows)
	temps, rhoL := make([]float64, n), make([]float64, n)
	// reciprocal temperatures must increase, so they run from the hot end
	invT, lnP, lnRhoV := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, r := range rows {
		temps[i], rhoL[i] = r.T, r.RhoLiquid
		j := n - 1 - i
		invT[j], lnP[j], lnRhoV[j] = 1/r.T, math.Log(r.P), math.Log(r.RhoVapor)
	}

	t := &tabulated{
		crit:   thermo.CriticalPoint{T: f.Tc, P: f.Pc, RhoMolar: f.RhoC},
		lowest: rows[0].T,
	}
	if last := rows[n-1]; last.T < t.crit.T {
		// the curve ends at the last row
		t.crit.T = last.T
	}
	for _, fit := range []struct {
		pl   *interp.PiecewiseLinear
		x, y []float64
	}{
		{&t.lnP, invT, lnP},
		{&t.lnRhoV, invT, lnRhoV},
		{&t.rhoL, temps, rhoL},
	} {
		if err := fit.pl.Fit(fit.x, fit.y); err != nil {
			return nil, code.LoadDatasetErr.WithMsgf("fluid %q saturation table: %v", f.Name, err)
		}
	}
	return t, nil
}

func (t *tabulated) critical() thermo.CriticalPoint { return t.crit }

func (t *tabulated) lowT() float64 { return t.lowest }

func (t *tabulated) pressure(T float64) float64 {
	return math.Exp(t.lnP.Predict(1 / T))
}

func (t *tabulated) liquid(T float64) float64 {
	return t.rhoL.Predict(T)
}

func (t *tabulated) vapor(T float64) (float64, error) {
	return math.Exp(t.lnRhoV.Predict(1 / T)), nil
}
