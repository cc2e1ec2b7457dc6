package dataset

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/repo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDataset(t *testing.T) {
	ctx := context.Background()
	d := NewEmbedded()

	solutes, err := d.GetSolutes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, solutes)
	assert.Equal(t, "isopropanol", solutes[0].Name)
	assert.Equal(t, "CC(C)O", solutes[0].SMILES)
	assert.InDelta(t, 1.764, solutes[0].L, 1e-12)
	assert.Contains(t, solutes[0].Aliases, "2-propanol")

	solvents, err := d.GetSolvents(ctx)
	require.NoError(t, err)
	byName := map[string]*model.Solvent{}
	for _, s := range solvents {
		byName[s.Name] = s
	}
	water := byName["water"]
	require.NotNil(t, water)
	require.NotNil(t, water.Gibbs)
	require.NotNil(t, water.Enthalpy)
	assert.Equal(t, "Water", water.Fluid)
	assert.InDelta(t, 647.096, water.Tc, 1e-9)
	assert.InDelta(t, 4.814, water.Gibbs.B, 1e-12)

	dmso := byName["dimethyl sulfoxide"]
	require.NotNil(t, dmso)
	assert.Nil(t, dmso.Enthalpy)

	octanol := byName["1-octanol"]
	require.NotNil(t, octanol)
	assert.Empty(t, octanol.Fluid)

	fluids, err := d.GetFluids(ctx)
	require.NoError(t, err)
	fluidNames := map[string]*model.Fluid{}
	for _, f := range fluids {
		fluidNames[f.Name] = f
	}
	for _, s := range solvents {
		if s.Fluid == "" {
			continue
		}
		assert.Contains(t, fluidNames, s.Fluid, "solvent %s", s.Name)
	}
	require.Contains(t, fluidNames, "Water")
	assert.Equal(t, model.FluidAncillary, fluidNames["Water"].Model)
	assert.Len(t, fluidNames["Water"].Pressure, 6)
	assert.Len(t, fluidNames["WaterTable"].Table, 10)
}

func TestDatasetFS(t *testing.T) {
	fsys := fstest.MapFS{
		"solutes.yaml": &fstest.MapFile{Data: []byte(`
solutes:
  - {name: methane, smiles: "C", E: 0, S: 0, A: 0, B: 0, L: -0.323, V: 0.2495}
`)},
		"solvents.yaml": &fstest.MapFile{Data: []byte("solvents: [")},
	}
	ctx := context.Background()
	d := NewFS(fsys)

	solutes, err := d.GetSolutes(ctx)
	require.NoError(t, err)
	require.Len(t, solutes, 1)
	assert.InDelta(t, -0.323, solutes[0].L, 1e-12)

	_, err = d.GetSolvents(ctx)
	assert.True(t, errors.Is(err, code.LoadDatasetErr))

	_, err = d.GetFluids(ctx)
	assert.True(t, errors.Is(err, code.LoadDatasetErr))
}
