package dataset

import (
	"context"
	"embed"
	"io/fs"
	"os"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/repo"
	"github.com/scienceol/solvation/pkg/repo/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	solutesFile  = "solutes.yaml"
	solventsFile = "solvents.yaml"
	fluidsFile   = "fluids.yaml"
)

type soluteFile struct {
	Solutes []*model.Solute `yaml:"solutes"`
}

type solventFile struct {
	Solvents []*model.Solvent `yaml:"solvents"`
}

type fluidFile struct {
	Fluids []*model.Fluid `yaml:"fluids"`
}

type datasetImpl struct {
	fsys fs.FS
}

// NewEmbedded serves the dataset compiled into the binary.
func NewEmbedded() repo.ParameterRepo {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// data/ is fixed at build time
		panic(err)
	}
	return &datasetImpl{fsys: sub}
}

// NewDir serves solutes.yaml, solvents.yaml and fluids.yaml from dir.
func NewDir(dir string) repo.ParameterRepo {
	return &datasetImpl{fsys: os.DirFS(dir)}
}

// NewFS is used by tests to serve an in-memory dataset.
func NewFS(fsys fs.FS) repo.ParameterRepo {
	return &datasetImpl{fsys: fsys}
}

func (d *datasetImpl) GetSolutes(ctx context.Context) ([]*model.Solute, error) {
	out := &soluteFile{}
	if err := d.decode(ctx, solutesFile, out); err != nil {
		return nil, err
	}
	return out.Solutes, nil
}

func (d *datasetImpl) GetSolvents(ctx context.Context) ([]*model.Solvent, error) {
	out := &solventFile{}
	if err := d.decode(ctx, solventsFile, out); err != nil {
		return nil, err
	}
	return out.Solvents, nil
}

func (d *datasetImpl) GetFluids(ctx context.Context) ([]*model.Fluid, error) {
	out := &fluidFile{}
	if err := d.decode(ctx, fluidsFile, out); err != nil {
		return nil, err
	}
	return out.Fluids, nil
}

func (d *datasetImpl) decode(ctx context.Context, name string, out any) error {
	raw, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		logger.Errorf(ctx, "read dataset file %s err: %+v", name, err)
		return code.LoadDatasetErr.WithErr(err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		logger.Errorf(ctx, "decode dataset file %s err: %+v", name, err)
		return code.LoadDatasetErr.WithMsgf("%s: %v", name, err)
	}
	return nil
}
