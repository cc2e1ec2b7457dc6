package compute

import (
	"encoding/json"
	"fmt"

	"github.com/scienceol/solvation/internal/bootstrap"
	"github.com/scienceol/solvation/internal/config"
	"github.com/scienceol/solvation/pkg/core/solvation"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/spf13/cobra"
)

var app *bootstrap.App

type evaluateFlags struct {
	solute       string
	solvent      string
	temperatures []float64
	json         bool
}

type sweepFlags struct {
	solute  string
	solvent string
	points  int
	margin  float64
	dir     string
	format  string
	csv     bool
}

func NewEvaluate() *cobra.Command {
	f := &evaluateFlags{}
	cmd := &cobra.Command{
		Use:          "evaluate",
		Short:        "K-factor and solvation free energy at given temperatures",
		SilenceUsage: true,
		PreRunE:      initApp,
		RunE: withApp(func(cmd *cobra.Command) error {
			return runEvaluate(cmd, f)
		}),
	}
	cmd.Flags().StringVar(&f.solute, "solute", "CC(C)O", "solute SMILES, name or alias")
	cmd.Flags().StringVar(&f.solvent, "solvent", "water", "solvent name or alias")
	cmd.Flags().Float64SliceVarP(&f.temperatures, "temperature", "t", []float64{300}, "temperatures in K")
	cmd.Flags().BoolVar(&f.json, "json", false, "print results as JSON")
	return cmd
}

func NewSweep() *cobra.Command {
	f := &sweepFlags{}
	cmd := &cobra.Command{
		Use:          "sweep",
		Short:        "Evaluate from 280 K to just below Tc and write charts",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			conf := config.Global()
			flags := cmd.Flags()
			if flags.Changed("dir") {
				conf.Report.Dir = f.dir
			}
			if flags.Changed("format") {
				conf.Report.Format = f.format
			}
			if flags.Changed("csv") {
				conf.Report.CSV = f.csv
			}
			if !flags.Changed("points") {
				f.points = conf.Sweep.Points
			}
			if !flags.Changed("margin") {
				f.margin = conf.Sweep.Margin
			}
			return initApp(cmd, args)
		},
		RunE: withApp(func(cmd *cobra.Command) error {
			return runSweep(cmd, f)
		}),
	}
	cmd.Flags().StringVar(&f.solute, "solute", "CC(C)O", "solute SMILES, name or alias")
	cmd.Flags().StringVar(&f.solvent, "solvent", "water", "solvent name or alias")
	cmd.Flags().IntVar(&f.points, "points", solvation.DefaultSweepPoints, "grid points")
	cmd.Flags().Float64Var(&f.margin, "margin", solvation.DefaultSweepMargin, "distance below Tc of the last point, K")
	cmd.Flags().StringVar(&f.dir, "dir", "", "output directory (REPORT_DIR)")
	cmd.Flags().StringVar(&f.format, "format", "", "chart format png or svg (REPORT_FORMAT)")
	cmd.Flags().BoolVar(&f.csv, "csv", true, "also write a CSV file (REPORT_CSV)")
	return cmd
}

func NewSolvents() *cobra.Command {
	return &cobra.Command{
		Use:          "solvents",
		Short:        "List solvents and whether they can be evaluated",
		SilenceUsage: true,
		PreRunE:      initApp,
		RunE: withApp(func(cmd *cobra.Command) error {
			infos := app.Solvation.Catalog(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), app.Report.CatalogTable(infos))
			return nil
		}),
	}
}

func initApp(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap.New(cmd.Context(), config.Global())
	if err != nil {
		logger.Errorf(cmd.Context(), "init %s err: %+v", cmd.Name(), err)
		return err
	}
	app = a
	return nil
}

// withApp releases the app after run returns. cobra skips PostRunE when
// RunE fails, so the release cannot live there.
func withApp(run func(cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		defer releaseApp(cmd)
		return run(cmd)
	}
}

func releaseApp(cmd *cobra.Command) {
	app.Close(cmd.Context())
	app = nil
}

func runEvaluate(cmd *cobra.Command, f *evaluateFlags) error {
	resp, err := app.Solvation.Evaluate(cmd.Context(), &solvation.EvaluateReq{
		Solute:       f.solute,
		Solvent:      f.solvent,
		Temperatures: f.temperatures,
	})
	if err != nil {
		return err
	}
	if f.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprint(cmd.OutOrStdout(), app.Report.EvaluateTable(resp))
	return nil
}

func runSweep(cmd *cobra.Command, f *sweepFlags) error {
	ctx := cmd.Context()
	resp, err := app.Solvation.Sweep(ctx, &solvation.SweepReq{
		Solute:  f.solute,
		Solvent: f.solvent,
		Points:  f.points,
		Margin:  f.margin,
	})
	if err != nil {
		return err
	}
	art, err := app.Report.WriteSweep(ctx, resp)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s in %s: %d points, %.2f - %.2f K\n",
		resp.Solute.Name, resp.Solvent.Name, len(resp.T), resp.T[0], resp.T[len(resp.T)-1])
	for _, c := range art.Charts {
		fmt.Fprintln(out, c)
	}
	if art.CSV != "" {
		fmt.Fprintln(out, art.CSV)
	}
	return nil
}
