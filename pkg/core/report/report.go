package report

import (
	"context"

	"github.com/scienceol/solvation/pkg/core/solvation"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Artifacts lists the files written for one sweep.
type Artifacts struct {
	Charts []string `json:"charts"`
	CSV    string   `json:"csv,omitempty"`
}

type Service interface {
	// EvaluateTable renders one row per temperature.
	EvaluateTable(resp *solvation.EvaluateResp) string
	CatalogTable(infos []*solvation.SolventInfo) string
	// WriteSweep writes the three sweep charts and, when enabled, a CSV file.
	WriteSweep(ctx context.Context, resp *solvation.SweepResp) (*Artifacts, error)
}
