package repo

import (
	"context"

	"github.com/scienceol/solvation/pkg/repo/model"
)

// ParameterRepo is the read side of the solvation parameter database.
type ParameterRepo interface {
	GetSolutes(ctx context.Context) ([]*model.Solute, error)
	GetSolvents(ctx context.Context) ([]*model.Solvent, error)
	GetFluids(ctx context.Context) ([]*model.Fluid, error)
}

// ParameterWriter seeds a persistent parameter database.
type ParameterWriter interface {
	BatchUpsertSolutes(ctx context.Context, solutes []*model.Solute) error
	BatchUpsertSolvents(ctx context.Context, solvents []*model.Solvent) error
	BatchUpsertFluids(ctx context.Context, fluids []*model.Fluid) error
}
