package solvation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/solvation"
	"github.com/scienceol/solvation/pkg/core/solvation/database"
	"github.com/scienceol/solvation/pkg/core/structure/smiles"
	"github.com/scienceol/solvation/pkg/core/thermo"
	"github.com/scienceol/solvation/pkg/core/thermo/eos"
	"github.com/scienceol/solvation/pkg/repo/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider records how often the property model is consulted.
type countingProvider struct {
	thermo.Provider
	calls int
}

func (c *countingProvider) CriticalPoint(fluid string) (thermo.CriticalPoint, error) {
	c.calls++
	return c.Provider.CriticalPoint(fluid)
}

func (c *countingProvider) SaturationPressure(T float64, fluid string) (float64, error) {
	c.calls++
	return c.Provider.SaturationPressure(T, fluid)
}

func (c *countingProvider) SaturatedLiquidDensity(T float64, fluid string) (float64, error) {
	c.calls++
	return c.Provider.SaturatedLiquidDensity(T, fluid)
}

func (c *countingProvider) SaturatedVaporDensity(T float64, fluid string) (float64, error) {
	c.calls++
	return c.Provider.SaturatedVaporDensity(T, fluid)
}

type fixture struct {
	svc      solvation.Service
	db       solvation.Database
	provider *countingProvider
	ipa      *solvation.SoluteData
	water    *solvation.SolventData
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	src := dataset.NewEmbedded()

	fluids, err := src.GetFluids(ctx)
	require.NoError(t, err)
	p, err := eos.New(fluids)
	require.NoError(t, err)
	db, err := database.New(ctx, src, smiles.New())
	require.NoError(t, err)

	f := &fixture{db: db, provider: &countingProvider{Provider: p}}
	f.svc = New(db, f.provider)
	f.ipa, err = db.LookupSolute(ctx, "CC(C)O")
	require.NoError(t, err)
	f.water, err = db.LookupSolvent(ctx, "water")
	require.NoError(t, err)
	return f
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func TestReferenceValues(t *testing.T) {
	f := newFixture(t)

	// logK = -1.271 + .822*.212 + 2.743*.36 + 3.904*.33 + 4.814*.56 - .213*1.764
	assert.InDelta(t, -19973.3, GibbsEnergy298(f.ipa, f.water), 0.5)
	assert.InDelta(t, -56813.8, Enthalpy298(f.ipa, f.water), 0.5)
}

func TestFreeEnergyAtReferenceTemperature(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	dg, err := f.svc.SolvationFreeEnergy(ctx, f.ipa, f.water, solvation.ReferenceTemperature)
	require.NoError(t, err)
	assert.InDelta(t, GibbsEnergy298(f.ipa, f.water), dg, 1e-6)
}

func TestIsopropanolInWater(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	k, err := f.svc.KFactor(ctx, f.ipa, f.water, 300)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, k, 10.0)
	assert.LessOrEqual(t, k, 20.0)
	assert.InEpsilon(t, 14.202047430339599, k, 1e-9)

	dg, err := f.svc.SolvationFreeEnergy(ctx, f.ipa, f.water, 300)
	require.NoError(t, err)
	assert.InEpsilon(t, -19746.372138227085, dg, 1e-9)

	resp, err := f.svc.Evaluate(ctx, &solvation.EvaluateReq{Solute: "CC(C)O", Solvent: "water", Temperatures: []float64{300}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.InEpsilon(t, 3536.7175865049244, resp.Results[0].Psat, 1e-9)
	assert.InEpsilon(t, 10.824340479977229, resp.Results[0].LnKPsat, 1e-9)
}

func TestDeterministic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, T := range []float64{280, 300, 450, 600} {
		k1, err := f.svc.KFactor(ctx, f.ipa, f.water, T)
		require.NoError(t, err)
		k2, err := f.svc.KFactor(ctx, f.ipa, f.water, T)
		require.NoError(t, err)
		assert.Equal(t, k1, k2)

		g1, err := f.svc.SolvationFreeEnergy(ctx, f.ipa, f.water, T)
		require.NoError(t, err)
		g2, err := f.svc.SolvationFreeEnergy(ctx, f.ipa, f.water, T)
		require.NoError(t, err)
		assert.Equal(t, g1, g2)
	}
}

func TestInputsAreNotMutated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	soluteBefore, solventBefore := *f.ipa, *f.water
	gibbsBefore, enthalpyBefore := *f.water.Gibbs, *f.water.Enthalpy
	_, err := f.svc.KFactor(ctx, f.ipa, f.water, 350)
	require.NoError(t, err)

	assert.Equal(t, soluteBefore, *f.ipa)
	assert.Equal(t, solventBefore, *f.water)
	assert.Equal(t, gibbsBefore, *f.water.Gibbs)
	assert.Equal(t, enthalpyBefore, *f.water.Enthalpy)
}

func TestFiniteAtWindowEdges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"water", "benzene", "toluene", "n-hexane", "ethanol", "acetone"} {
		sv, err := f.db.LookupSolvent(ctx, name)
		require.NoError(t, err)
		for _, T := range []float64{solvation.MinTemperature, sv.Tc - 0.01} {
			k, err := f.svc.KFactor(ctx, f.ipa, sv, T)
			require.NoError(t, err, "%s at %g", name, T)
			assert.True(t, finite(k) && k > 0, "%s at %g: %g", name, T, k)

			dg, err := f.svc.SolvationFreeEnergy(ctx, f.ipa, sv, T)
			require.NoError(t, err)
			assert.True(t, finite(dg), "%s at %g: %g", name, T, dg)
		}
	}
}

func TestContinuousAtTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"water", "benzene", "methanol"} {
		sv, err := f.db.LookupSolvent(ctx, name)
		require.NoError(t, err)
		tt := solvation.TransitionRatio * sv.Tc

		below, err := f.svc.KFactor(ctx, f.ipa, sv, tt-1e-6)
		require.NoError(t, err)
		at, err := f.svc.KFactor(ctx, f.ipa, sv, tt)
		require.NoError(t, err)
		above, err := f.svc.KFactor(ctx, f.ipa, sv, tt+1e-6)
		require.NoError(t, err)
		assert.InEpsilon(t, at, below, 1e-5, name)
		assert.InEpsilon(t, at, above, 1e-5, name)
	}
}

func TestOutOfRangeBeforePropertyLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, T := range []float64{f.water.Tc, f.water.Tc + 1, 279.99, 0, -5, math.NaN(), math.Inf(1)} {
		f.provider.calls = 0
		_, err := f.svc.KFactor(ctx, f.ipa, f.water, T)
		assert.True(t, errors.Is(err, code.OutOfRange), "%g: %v", T, err)
		_, err = f.svc.SolvationFreeEnergy(ctx, f.ipa, f.water, T)
		assert.True(t, errors.Is(err, code.OutOfRange), "%g: %v", T, err)
		assert.Zero(t, f.provider.calls, "%g", T)
	}

	f.provider.calls = 0
	_, err := f.svc.Evaluate(ctx, &solvation.EvaluateReq{Solute: "CC(C)O", Solvent: "water", Temperatures: []float64{300, 700}})
	assert.True(t, errors.Is(err, code.OutOfRange))
	assert.Zero(t, f.provider.calls)
}

func TestMissingData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"DMSO", "1-octanol"} {
		sv, err := f.db.LookupSolvent(ctx, name)
		require.NoError(t, err)
		f.provider.calls = 0
		_, err = f.svc.KFactor(ctx, f.ipa, sv, 300)
		assert.True(t, errors.Is(err, code.MissingData), "%s: %v", name, err)
		assert.Zero(t, f.provider.calls)
	}

	unknownFluid := *f.water
	unknownFluid.Fluid = "Mercury"
	_, err := f.svc.KFactor(ctx, f.ipa, &unknownFluid, 300)
	assert.True(t, errors.Is(err, code.MissingData))

	lowTc := *f.water
	lowTc.Tc = 380
	_, err = f.svc.KFactor(ctx, f.ipa, &lowTc, 300)
	assert.True(t, errors.Is(err, code.FitErr))

	_, err = f.svc.KFactor(ctx, nil, f.water, 300)
	assert.True(t, errors.Is(err, code.ParamErr))
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.Evaluate(ctx, &solvation.EvaluateReq{
		Solute:       "OC(C)C",
		Solvent:      "H2O",
		Temperatures: []float64{300, 350, 400},
	})
	require.NoError(t, err)
	assert.Equal(t, "isopropanol", resp.Solute.Name)
	assert.Equal(t, "water", resp.Solvent.Name)
	require.Len(t, resp.Results, 3)

	for _, r := range resp.Results {
		k, err := f.svc.KFactor(ctx, f.ipa, f.water, r.T)
		require.NoError(t, err)
		assert.InEpsilon(t, k, r.KFactor, 1e-12)
		assert.InDelta(t, math.Log(r.KFactor), r.LnK, 1e-9)
		assert.InDelta(t, r.LnK+math.Log(r.Psat), r.LnKPsat, 1e-9)
		assert.Greater(t, r.Psat, 0.0)
	}
	assert.InEpsilon(t, 3536.8, resp.Results[0].Psat, 0.01)

	_, err = f.svc.Evaluate(ctx, &solvation.EvaluateReq{Solute: "CC(C)O", Solvent: "mercury", Temperatures: []float64{300}})
	assert.True(t, errors.Is(err, code.UnknownSolvent))

	_, err = f.svc.Evaluate(ctx, &solvation.EvaluateReq{Solute: "CCCCCCCCCCCCO", Solvent: "water", Temperatures: []float64{300}})
	assert.True(t, errors.Is(err, code.UnknownSolute))

	_, err = f.svc.Evaluate(ctx, &solvation.EvaluateReq{Solute: "CC(C)O", Solvent: "water"})
	assert.True(t, errors.Is(err, code.ParamErr))
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.Sweep(ctx, &solvation.SweepReq{Solute: "CC(C)O", Solvent: "water"})
	require.NoError(t, err)
	require.Len(t, resp.T, solvation.DefaultSweepPoints)
	require.Len(t, resp.LnK, solvation.DefaultSweepPoints)
	require.Len(t, resp.LnKPsat, solvation.DefaultSweepPoints)
	require.Len(t, resp.FreeEnergy, solvation.DefaultSweepPoints)

	assert.InDelta(t, solvation.MinTemperature, resp.T[0], 1e-12)
	assert.InDelta(t, f.water.Tc-solvation.DefaultSweepMargin, resp.T[len(resp.T)-1], 1e-9)
	for i := range resp.T {
		assert.True(t, finite(resp.LnK[i]) && finite(resp.LnKPsat[i]) && finite(resp.FreeEnergy[i]), "point %d", i)
		if i > 0 {
			assert.Greater(t, resp.T[i], resp.T[i-1])
		}
	}

	// the sweep agrees with point evaluation
	points := []float64{resp.T[0], resp.T[10], resp.T[50], resp.T[99]}
	eval, err := f.svc.Evaluate(ctx, &solvation.EvaluateReq{Solute: "CC(C)O", Solvent: "water", Temperatures: points})
	require.NoError(t, err)
	var lnK, dg []float64
	for _, r := range eval.Results {
		lnK = append(lnK, r.LnK)
		dg = append(dg, r.FreeEnergy)
	}
	approx := cmpopts.EquateApprox(1e-12, 1e-9)
	assert.Empty(t, cmp.Diff(lnK, []float64{resp.LnK[0], resp.LnK[10], resp.LnK[50], resp.LnK[99]}, approx))
	assert.Empty(t, cmp.Diff(dg, []float64{resp.FreeEnergy[0], resp.FreeEnergy[10], resp.FreeEnergy[50], resp.FreeEnergy[99]}, approx))

	custom, err := f.svc.Sweep(ctx, &solvation.SweepReq{Solute: "CC(C)O", Solvent: "water", Points: 5, Margin: 1})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]float64{280, 371.524, 463.048, 554.572, 646.096}, custom.T, approx))

	_, err = f.svc.Sweep(ctx, &solvation.SweepReq{Solute: "CC(C)O", Solvent: "water", Points: 1})
	assert.True(t, errors.Is(err, code.ParamErr))

	_, err = f.svc.Sweep(ctx, &solvation.SweepReq{Solute: "CC(C)O", Solvent: "nowhere"})
	assert.True(t, errors.Is(err, code.UnknownSolvent))

	_, err = f.svc.Sweep(ctx, &solvation.SweepReq{Solute: "CC(C)O", Solvent: "DMSO"})
	assert.True(t, errors.Is(err, code.MissingData))
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	infos := f.svc.Catalog(ctx)
	byName := map[string]*solvation.SolventInfo{}
	for _, i := range infos {
		byName[i.Name] = i
	}
	require.Contains(t, byName, "water")
	assert.True(t, byName["water"].Usable)
	assert.InDelta(t, 647.096, byName["water"].MaxT, 1e-12)
	assert.InDelta(t, solvation.MinTemperature, byName["water"].MinT, 1e-12)

	require.Contains(t, byName, "dimethyl sulfoxide")
	assert.False(t, byName["dimethyl sulfoxide"].Usable)
	assert.Contains(t, byName["dimethyl sulfoxide"].Reason, "enthalpy")

	require.Contains(t, byName, "1-octanol")
	assert.False(t, byName["1-octanol"].Usable)
	assert.Contains(t, byName["1-octanol"].Reason, "fluid")
}
