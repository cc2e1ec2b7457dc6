package render

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/solvation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ipa   = &solvation.SoluteData{Name: "isopropanol", SMILES: "CC(C)O"}
	water = &solvation.SolventData{Name: "water", Aliases: []string{"H2O"}, Tc: 647.096, Fluid: "Water"}
)

func sampleSweep(n int) *solvation.SweepResp {
	resp := &solvation.SweepResp{Solute: ipa, Solvent: water}
	for i := 0; i < n; i++ {
		T := 280 + float64(i)*(647.086-280)/float64(n-1)
		resp.T = append(resp.T, T)
		resp.LnK = append(resp.LnK, 2.5-float64(i)*0.02)
		resp.LnKPsat = append(resp.LnKPsat, 9+float64(i)*0.08)
		resp.FreeEnergy = append(resp.FreeEnergy, -22000+float64(i)*200)
	}
	return resp
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(&Config{Format: "gif"})
	assert.True(t, errors.Is(err, code.ParamErr))

	r, err := New(&Config{Format: "SVG"})
	require.NoError(t, err)
	assert.Equal(t, "svg", string(r.(*renderImpl).format))

	r, err = New(&Config{})
	require.NoError(t, err)
	assert.Equal(t, "png", string(r.(*renderImpl).format))
}

func TestEvaluateTable(t *testing.T) {
	r, err := New(&Config{})
	require.NoError(t, err)

	out := r.EvaluateTable(&solvation.EvaluateResp{
		Solute:  ipa,
		Solvent: water,
		Results: []*solvation.Result{
			{T: 300, KFactor: 14.202, LnK: 2.6534, FreeEnergy: -19746.37, Psat: 3536.8, LnKPsat: 10.8243},
			{T: 350, KFactor: 23.55, LnK: 3.1592, FreeEnergy: -14747.92, Psat: 41682, LnKPsat: 13.797},
		},
	})
	assert.Contains(t, out, "isopropanol (CC(C)O) in water")
	assert.Contains(t, out, "K-factor")
	assert.Contains(t, out, "300.00")
	assert.Contains(t, out, "14.202")
	assert.Contains(t, out, "-19.746")
	assert.Contains(t, out, "350.00")
}

func TestCatalogTable(t *testing.T) {
	r, err := New(&Config{})
	require.NoError(t, err)

	out := r.CatalogTable([]*solvation.SolventInfo{
		{Name: "water", Aliases: []string{"H2O"}, Fluid: "Water", Tc: 647.096, Usable: true, MinT: 280, MaxT: 647.096},
		{Name: "1-octanol", Tc: 652.5, Reason: "missing data: solvent 1-octanol has no property fluid"},
	})
	assert.Contains(t, out, "280.00 - 647.10")
	assert.Contains(t, out, "H2O")
	assert.Contains(t, out, "has no property fluid")
}

func TestWriteSweep(t *testing.T) {
	ctx := context.Background()
	for _, format := range []string{"png", "svg"} {
		t.Run(format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			r, err := New(&Config{Dir: dir, Format: format, CSV: true})
			require.NoError(t, err)

			art, err := r.WriteSweep(ctx, sampleSweep(100))
			require.NoError(t, err)
			require.Len(t, art.Charts, 3)
			for _, file := range art.Charts {
				assert.True(t, strings.HasSuffix(file, "."+format), file)
				assert.True(t, strings.HasPrefix(filepath.Base(file), "isopropanol_in_water_"), file)
				raw, err := os.ReadFile(file)
				require.NoError(t, err)
				if format == "png" {
					assert.Equal(t, "\x89PNG", string(raw[:4]))
				} else {
					assert.Contains(t, string(raw), "<svg")
				}
			}

			f, err := os.Open(art.CSV)
			require.NoError(t, err)
			defer f.Close()
			rows, err := csv.NewReader(f).ReadAll()
			require.NoError(t, err)
			require.Len(t, rows, 101)
			assert.Equal(t, []string{"T_K", "ln_K", "ln_K_Psat", "dG_J_per_mol"}, rows[0])
			assert.Equal(t, "280.000000", rows[1][0])
		})
	}
}

func TestWriteSweepWithoutCSV(t *testing.T) {
	dir := t.TempDir()
	r, err := New(&Config{Dir: dir})
	require.NoError(t, err)

	art, err := r.WriteSweep(context.Background(), sampleSweep(10))
	require.NoError(t, err)
	assert.Empty(t, art.CSV)

	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

type failingClose struct {
	strings.Builder
	closed bool
}

func (f *failingClose) Close() error {
	f.closed = true
	return errors.New("disk full")
}

func TestWriteSweepReportsCSVCloseError(t *testing.T) {
	sink := &failingClose{}
	prev := createFile
	createFile = func(string) (io.WriteCloser, error) { return sink, nil }
	t.Cleanup(func() { createFile = prev })

	r, err := New(&Config{Dir: t.TempDir(), CSV: true})
	require.NoError(t, err)

	art, err := r.WriteSweep(context.Background(), sampleSweep(10))
	assert.Nil(t, art)
	assert.True(t, errors.Is(err, code.RenderErr))
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, sink.closed)
	assert.True(t, strings.HasPrefix(sink.String(), "T_K,ln_K,ln_K_Psat,dG_J_per_mol\n"))
}

func TestWriteSweepRejectsMisalignedSequences(t *testing.T) {
	r, err := New(&Config{Dir: t.TempDir()})
	require.NoError(t, err)

	resp := sampleSweep(10)
	resp.LnKPsat = resp.LnKPsat[:9]
	_, err = r.WriteSweep(context.Background(), resp)
	assert.True(t, errors.Is(err, code.RenderErr))

	_, err = r.WriteSweep(context.Background(), &solvation.SweepResp{Solute: ipa, Solvent: water})
	assert.True(t, errors.Is(err, code.RenderErr))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "acetic_acid_in_dimethyl_sulfoxide", baseName("Acetic Acid", "dimethyl sulfoxide"))
	assert.Equal(t, "n-hexane_in_water", baseName("n-hexane", "water"))
}
