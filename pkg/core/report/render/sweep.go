package render

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/report"
	"github.com/scienceol/solvation/pkg/core/solvation"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type chart struct {
	suffix string
	title  string
	ylabel string
	values func(resp *solvation.SweepResp) []float64
}

var sweepCharts = []chart{
	{
		suffix: "lnk",
		title:  "ln K",
		ylabel: "ln K",
		values: func(resp *solvation.SweepResp) []float64 { return resp.LnK },
	},
	{
		suffix: "lnkpsat",
		title:  "ln(K·Psat)",
		ylabel: "ln(K·Psat / Pa)",
		values: func(resp *solvation.SweepResp) []float64 { return resp.LnKPsat },
	},
	{
		suffix: "dg",
		title:  "Solvation free energy",
		ylabel: "ΔG (kJ/mol)",
		values: func(resp *solvation.SweepResp) []float64 {
			out := make([]float64, len(resp.FreeEnergy))
			for i, v := range resp.FreeEnergy {
				out[i] = v / 1000
			}
			return out
		},
	},
}

func (r *renderImpl) WriteSweep(ctx context.Context, resp *solvation.SweepResp) (*report.Artifacts, error) {
	if resp == nil || len(resp.T) == 0 {
		return nil, code.RenderErr.WithMsg("empty sweep")
	}
	for _, c := range sweepCharts {
		if len(c.values(resp)) != len(resp.T) {
			return nil, code.RenderErr.WithMsgf("%s has %d values for %d temperatures", c.suffix, len(c.values(resp)), len(resp.T))
		}
	}
	if err := r.ensureDir(); err != nil {
		return nil, err
	}

	base := baseName(resp.Solute.Name, resp.Solvent.Name)
	out := &report.Artifacts{}
	for _, c := range sweepCharts {
		file := r.path(fmt.Sprintf("%s_%s.%s", base, c.suffix, r.format))
		if err := r.writeChart(ctx, file, resp, c); err != nil {
			return nil, err
		}
		out.Charts = append(out.Charts, file)
	}

	if r.csv {
		file := r.path(base + "_sweep.csv")
		if err := writeCSV(ctx, file, resp); err != nil {
			return nil, err
		}
		out.CSV = file
	}
	return out, nil
}

func (r *renderImpl) writeChart(ctx context.Context, file string, resp *solvation.SweepResp, c chart) error {
	values := c.values(resp)
	pts := make(plotter.XYs, len(resp.T))
	for i := range resp.T {
		pts[i].X = resp.T[i]
		pts[i].Y = values[i]
	}

	err := utils.SafelyRun(func() error {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s: %s in %s", c.title, resp.Solute.Name, resp.Solvent.Name)
		p.X.Label.Text = "T (K)"
		p.Y.Label.Text = c.ylabel

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(plotter.NewGrid(), line)
		return p.Save(6*vg.Inch, 4*vg.Inch, file)
	})
	if err != nil {
		logger.Errorf(ctx, "render chart %s err: %+v", file, err)
		return code.RenderErr.WithErr(err)
	}
	return nil
}

// createFile is swapped in tests to exercise close failures.
var createFile = func(name string) (io.WriteCloser, error) { return os.Create(name) }

func writeCSV(ctx context.Context, file string, resp *solvation.SweepResp) error {
	f, err := createFile(file)
	if err != nil {
		return code.RenderErr.WithErr(err)
	}

	w := csv.NewWriter(f)
	rows := [][]string{{"T_K", "ln_K", "ln_K_Psat", "dG_J_per_mol"}}
	for i, T := range resp.T {
		rows = append(rows, []string{
			strconv.FormatFloat(T, 'f', 6, 64),
			strconv.FormatFloat(resp.LnK[i], 'g', 10, 64),
			strconv.FormatFloat(resp.LnKPsat[i], 'g', 10, 64),
			strconv.FormatFloat(resp.FreeEnergy[i], 'g', 10, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		logger.Errorf(ctx, "write csv %s err: %+v", file, err)
		return code.RenderErr.WithErr(err)
	}
	if err := f.Close(); err != nil {
		logger.Errorf(ctx, "close csv %s err: %+v", file, err)
		return code.RenderErr.WithErr(err)
	}
	return nil
}
