package solvation

import (
	"math"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/solvation"
	"github.com/scienceol/solvation/pkg/core/thermo"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

const (
	harveyExpB = 0.355
	harveyExpC = 0.59
	// step of the central differences, K
	diffStep = 0.01
)

// correlation is ln K(T) for one solute/solvent pair, fitted once.
type correlation struct {
	provider thermo.Provider
	fluid    string
	tc       float64
	tt       float64
	rhoC     float64
	// a, b, c of the Harvey form and d of the JLS form
	a, b, c, d float64
}

// GibbsEnergy298 is the solvation free energy at the reference temperature, J/mol.
func GibbsEnergy298(solute *solvation.SoluteData, solvent *solvation.SolventData) float64 {
	return -thermo.R * solvation.ReferenceTemperature * math.Ln10 * solvent.Gibbs.Apply(solute)
}

// Enthalpy298 is the solvation enthalpy at the reference temperature, J/mol.
func Enthalpy298(solute *solvation.SoluteData, solvent *solvation.SolventData) float64 {
	return 1000 * solvent.Enthalpy.Apply(solute)
}

func harveyBasis(tr float64) (fa, fb, fc float64) {
	tau := 1 - tr
	return 1 / tr, math.Pow(tau, harveyExpB) / tr, math.Exp(tau) * math.Pow(tr, harveyExpC-1)
}

// harveySlope is d/dT of the three Harvey basis functions.
func harveySlope(tr, tc float64) (fa, fb, fc float64) {
	tau := 1 - tr
	fa = -1 / (tr * tr)
	fb = -harveyExpB*math.Pow(tau, harveyExpB-1)/tr - math.Pow(tau, harveyExpB)/(tr*tr)
	fc = -math.Exp(tau)*math.Pow(tr, harveyExpC-1) + (harveyExpC-1)*math.Exp(tau)*math.Pow(tr, harveyExpC-2)
	return fa / tc, fb / tc, fc / tc
}

func (c *correlation) lnDensityRatio(T float64) (float64, error) {
	rhoL, err := c.provider.SaturatedLiquidDensity(T, c.fluid)
	if err != nil {
		return 0, err
	}
	rhoV, err := c.provider.SaturatedVaporDensity(T, c.fluid)
	if err != nil {
		return 0, err
	}
	if !(rhoL > 0) || !(rhoV > 0) {
		return 0, code.PropertyErr.WithMsgf("%s densities %g, %g at %g K", c.fluid, rhoL, rhoV, T)
	}
	return math.Log(rhoL / rhoV), nil
}

func (c *correlation) jlsBasis(T float64) (float64, error) {
	rhoL, err := c.provider.SaturatedLiquidDensity(T, c.fluid)
	if err != nil {
		return 0, err
	}
	return (rhoL/c.rhoC - 1) * c.tc / T, nil
}

// centralDiff returns f'(T) by a symmetric difference, or the first error f
// reported while sampling.
func centralDiff(f func(float64) (float64, error), T float64) (float64, error) {
	var sampleErr error
	d := fd.Derivative(func(x float64) float64 {
		v, err := f(x)
		if err != nil && sampleErr == nil {
			sampleErr = err
		}
		return v
	}, T, &fd.Settings{Formula: fd.Central, Step: diffStep})
	if sampleErr != nil {
		return 0, sampleErr
	}
	return d, nil
}

// fit solves for a, b, c and d so that ln K and its slope match the
// Gibbs-Helmholtz values at the reference temperature and both forms join
// with equal value and slope at the transition temperature.
func fit(provider thermo.Provider, solute *solvation.SoluteData, solvent *solvation.SolventData) (*correlation, error) {
	crit, err := provider.CriticalPoint(solvent.Fluid)
	if err != nil {
		return nil, err
	}
	c := &correlation{
		provider: provider,
		fluid:    solvent.Fluid,
		tc:       solvent.Tc,
		tt:       solvation.TransitionRatio * solvent.Tc,
		rhoC:     crit.RhoMolar,
	}
	t1 := solvation.ReferenceTemperature
	if c.tt <= t1 {
		return nil, code.FitErr.WithMsgf("transition %.2f K of %s is below %.2f K", c.tt, solvent.Name, t1)
	}
	if !(c.rhoC > 0) {
		return nil, code.MissingData.WithMsgf("fluid %s has no critical density", solvent.Fluid)
	}

	ratio1, err := c.lnDensityRatio(t1)
	if err != nil {
		return nil, err
	}
	dRatio1, err := centralDiff(c.lnDensityRatio, t1)
	if err != nil {
		return nil, err
	}
	value1 := GibbsEnergy298(solute, solvent)/(thermo.R*t1) + ratio1
	slope1 := -Enthalpy298(solute, solvent)/(thermo.R*t1*t1) + dRatio1

	jlsT, err := c.jlsBasis(c.tt)
	if err != nil {
		return nil, err
	}
	jlsSlope, err := centralDiff(c.jlsBasis, c.tt)
	if err != nil {
		return nil, err
	}

	tr1, trt := t1/c.tc, c.tt/c.tc
	a1, b1, c1 := harveyBasis(tr1)
	da1, db1, dc1 := harveySlope(tr1, c.tc)
	at, bt, ct := harveyBasis(trt)
	dat, dbt, dct := harveySlope(trt, c.tc)

	lhs := mat.NewDense(4, 4, []float64{
		a1, b1, c1, 0,
		da1, db1, dc1, 0,
		at, bt, ct, -jlsT,
		dat, dbt, dct, -jlsSlope,
	})
	rhs := mat.NewVecDense(4, []float64{value1, slope1, 0, 0})

	var x mat.VecDense
	if err := x.SolveVec(lhs, rhs); err != nil {
		return nil, code.FitErr.WithErr(err)
	}
	c.a, c.b, c.c, c.d = x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3)
	for _, v := range []float64{c.a, c.b, c.c, c.d} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, code.FitErr.WithMsgf("non-finite coefficients for %s", solvent.Name)
		}
	}
	return c, nil
}

// lnK evaluates the fitted correlation at T.
func (c *correlation) lnK(T float64) (float64, error) {
	if T < c.tt {
		fa, fb, fc := harveyBasis(T / c.tc)
		return c.a*fa + c.b*fb + c.c*fc, nil
	}
	f, err := c.jlsBasis(T)
	if err != nil {
		return 0, err
	}
	return c.d * f, nil
}
