package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/scienceol/solvation/pkg/core/solvation"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle.Align(lipgloss.Right)
		}).
		Headers(headers...)
}

func (r *renderImpl) EvaluateTable(resp *solvation.EvaluateResp) string {
	t := newTable("T (K)", "K-factor", "ΔG (kJ/mol)", "Psat (Pa)", "ln(K·Psat)")
	for _, res := range resp.Results {
		t.Row(
			strconv.FormatFloat(res.T, 'f', 2, 64),
			strconv.FormatFloat(res.KFactor, 'g', 6, 64),
			strconv.FormatFloat(res.FreeEnergy/1000, 'f', 3, 64),
			strconv.FormatFloat(res.Psat, 'g', 6, 64),
			strconv.FormatFloat(res.LnKPsat, 'f', 4, 64),
		)
	}
	title := titleStyle.Render(fmt.Sprintf("%s (%s) in %s", resp.Solute.Name, resp.Solute.SMILES, resp.Solvent.Name))
	return title + "\n" + t.String() + "\n"
}

func (r *renderImpl) CatalogTable(infos []*solvation.SolventInfo) string {
	t := newTable("Solvent", "Aliases", "Fluid", "Tc (K)", "Window (K)", "Status")
	for _, info := range infos {
		window, status := "-", "ok"
		if info.Usable {
			window = fmt.Sprintf("%.2f - %.2f", info.MinT, info.MaxT)
		} else {
			status = info.Reason
		}
		fluid := info.Fluid
		if fluid == "" {
			fluid = "-"
		}
		t.Row(
			info.Name,
			strings.Join(info.Aliases, ", "),
			fluid,
			strconv.FormatFloat(info.Tc, 'f', 2, 64),
			window,
			status,
		)
	}
	return t.String() + "\n"
}
