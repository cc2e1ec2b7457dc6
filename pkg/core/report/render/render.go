package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/report"
)

type Config struct {
	Dir    string
	Format string
	CSV    bool
}

type renderImpl struct {
	dir    string
	format report.Format
	csv    bool
}

func New(conf *Config) (report.Service, error) {
	format := report.Format(strings.ToLower(conf.Format))
	switch format {
	case "":
		format = report.PNG
	case report.PNG, report.SVG:
	default:
		return nil, code.ParamErr.WithMsgf("unsupported chart format %q", conf.Format)
	}
	dir := conf.Dir
	if dir == "" {
		dir = "."
	}
	return &renderImpl{
		dir:    dir,
		format: format,
		csv:    conf.CSV,
	}, nil
}

// baseName derives a file name stem from the solute and solvent names.
func baseName(solute, solvent string) string {
	clean := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
				return r
			default:
				return '_'
			}
		}, s)
	}
	return fmt.Sprintf("%s_in_%s", clean(solute), clean(solvent))
}

func (r *renderImpl) ensureDir() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return code.RenderErr.WithErr(err)
	}
	return nil
}

func (r *renderImpl) path(name string) string {
	return filepath.Join(r.dir, name)
}
