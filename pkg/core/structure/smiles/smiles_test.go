package smiles

import (
	"context"
	"errors"
	"testing"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Molecule {
	t.Helper()
	m, err := Parse(s)
	require.NoError(t, err, s)
	return m
}

func keysOf(t *testing.T, s string) []string {
	t.Helper()
	res, err := New().Resolve(context.Background(), s)
	require.NoError(t, err, s)
	require.NotEmpty(t, res.Keys)
	return res.Keys
}

func TestParseImplicitHydrogens(t *testing.T) {
	m := mustParse(t, "CC(C)O")
	require.Len(t, m.Atoms, 4)
	require.Len(t, m.Bonds, 3)
	assert.Equal(t, []int{3, 1, 3, 1}, []int{m.Atoms[0].HCount, m.Atoms[1].HCount, m.Atoms[2].HCount, m.Atoms[3].HCount})

	benzene := mustParse(t, "c1ccccc1")
	for _, a := range benzene.Atoms {
		assert.True(t, a.Aromatic)
		assert.Equal(t, 1, a.HCount)
	}
	for _, b := range benzene.Bonds {
		assert.Equal(t, Aromatic, b.Order)
	}

	ammonium := mustParse(t, "[NH4+]")
	assert.Equal(t, 4, ammonium.Atoms[0].HCount)
	assert.Equal(t, 1, ammonium.Atoms[0].Charge)

	water := mustParse(t, "[H]O[H]")
	require.Len(t, water.Atoms, 1)
	assert.Equal(t, 2, water.Atoms[0].HCount)
}

func TestFormula(t *testing.T) {
	cases := map[string]string{
		"CC(C)O":          "C3H8O",
		"O":               "H2O",
		"[H]O[H]":         "H2O",
		"O=C=O":           "CO2",
		"C":               "CH4",
		"c1ccccc1":        "C6H6",
		"Cc1ccccc1":       "C7H8",
		"c1ccncc1":        "C5H5N",
		"CC(=O)O":         "C2H4O2",
		"C[N+](=O)[O-]":   "CH3NO2",
		"CC(=O)[O-]":      "C2H3O2-",
		"[NH4+]":          "H4N+",
		"[123I-]":         "I-",
		"[13CH4]":         "CH4",
		"[Fe+3]":          "Fe3+",
		"ClC(Cl)Cl":       "CHCl3",
		"CS(=O)C":         "C2H6OS",
		"c1ccc2ccccc2c1":  "C10H8",
		"C1CC%10CC1.C%10": "C6H12",
	}
	for s, want := range cases {
		assert.Equal(t, want, Formula(mustParse(t, s)), s)
	}
}

func TestKeyIgnoresAtomOrder(t *testing.T) {
	assert.Equal(t, Key(mustParse(t, "CC(C)O")), Key(mustParse(t, "OC(C)C")))
	assert.Equal(t, Key(mustParse(t, "CCO")), Key(mustParse(t, "OCC")))
	assert.Equal(t, Key(mustParse(t, "Cc1ccccc1")), Key(mustParse(t, "c1cccc(C)c1")))

	// isomers share a formula but not a key
	assert.NotEqual(t, Key(mustParse(t, "CCO")), Key(mustParse(t, "COC")))
	assert.NotEqual(t, Key(mustParse(t, "CCCO")), Key(mustParse(t, "CC(C)O")))

	// isotopes are kept apart
	assert.NotEqual(t, Key(mustParse(t, "O")), Key(mustParse(t, "[2H]O[2H]")))
}

func TestKeySeparatesRefinementEquivalentGraphs(t *testing.T) {
	// every atom has the same neighbourhood up to any depth in each pair
	pairs := [][2]string{
		{"C1CCC2CCCCC2C1", "C1CCC(C1)C1CCCC1"},
		{"C1CCCCC1", "C1CC1.C1CC1"},
		{"C1CCCCCCC1", "C1CCC1.C1CCC1"},
	}
	for _, p := range pairs {
		a, b := mustParse(t, p[0]), mustParse(t, p[1])
		require.Equal(t, Formula(a), Formula(b))
		assert.NotEqual(t, Key(a), Key(b), "%s vs %s", p[0], p[1])
	}

	// renumbered spellings of the same symmetric graphs still agree
	assert.Equal(t, Key(mustParse(t, "C1CCC2CCCCC2C1")), Key(mustParse(t, "C1CC2CCCCC2CC1")))
	assert.Equal(t, Key(mustParse(t, "C1CCC(C1)C1CCCC1")), Key(mustParse(t, "C1CCCC1C1CCCC1")))
	assert.Equal(t, Key(mustParse(t, "C1CC1.C1CC1")), Key(mustParse(t, "C1CC1.C2CC2")))
}

func TestAromaticAndKekuleSpellingsMatch(t *testing.T) {
	pairs := [][2]string{
		{"c1ccccc1", "C1=CC=CC=C1"},
		{"Cc1ccccc1", "CC1=CC=CC=C1"},
		{"c1ccncc1", "C1=CC=NC=C1"},
		{"c1cc[nH]c1", "C1=CC=CN1"},
		{"c1ccoc1", "C1=COC=C1"},
		{"c1ccc2ccccc2c1", "C1=CC=C2C=CC=CC2=C1"},
		{"Oc1ccccc1", "OC1=CC=CC=C1"},
	}
	for _, p := range pairs {
		a, k := keysOf(t, p[0]), keysOf(t, p[1])
		assert.Equal(t, a[0], k[0], "%s vs %s", p[0], p[1])
	}
}

func TestResonanceForms(t *testing.T) {
	// both benzene Kekule structures are the same graph
	assert.Len(t, keysOf(t, "c1ccccc1"), 2)

	// naphthalene has two distinct Kekule graphs
	assert.Len(t, keysOf(t, "c1ccc2ccccc2c1"), 3)

	// no rings, hybrid and only form coincide
	assert.Len(t, keysOf(t, "CC(C)O"), 1)

	// non-aromatic ring stays as written
	cot := keysOf(t, "C1=CC=CC=CC=C1")
	assert.Len(t, cot, 1)

	m := mustParse(t, "c1ccccc1")
	forms, err := Kekulize(m)
	require.NoError(t, err)
	require.Len(t, forms, 2)
	for _, f := range forms {
		var doubles int
		for _, b := range f.Bonds {
			if b.Order == Double {
				doubles++
			}
		}
		assert.Equal(t, 3, doubles)
	}
}

func TestDifferentSpeciesDoNotShareKeys(t *testing.T) {
	seen := map[string]string{}
	for _, s := range []string{"c1ccccc1", "Cc1ccccc1", "c1ccncc1", "CCO", "COC", "CC(C)O", "CCCO", "O", "C1CCCCC1", "C1=CCCCC1"} {
		for _, k := range keysOf(t, s) {
			if prev, ok := seen[k]; ok {
				t.Errorf("%s and %s share key %s", prev, s, k)
			}
			seen[k] = s
		}
	}
}

func TestInvalidStructures(t *testing.T) {
	for _, s := range []string{"", "   ", "C(C", "CC)", "C1CC", "X", "C==C", "[Xx]", "c1ccnc1", "C.", "(C)", "*C", "[CH3",
		"[C+99999999999999999999]", "[1234C]", "[CH1000]", "[C++++++++++++++++]", "[O-16]"} {
		_, err := New().Resolve(context.Background(), s)
		assert.True(t, errors.Is(err, code.InvalidStructure), "%q: %v", s, err)
	}
}
