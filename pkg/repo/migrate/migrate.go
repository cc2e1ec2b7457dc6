package migrate

import (
	"context"

	"github.com/scienceol/solvation/pkg/middleware/db"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/repo"
	"github.com/scienceol/solvation/pkg/repo/model"
)

func Table(ctx context.Context, ds *db.Datastore) error {
	d := ds.DBWithContext(ctx)
	models := []any{
		&model.Solute{},
		&model.Solvent{},
		&model.Fluid{},
	}
	for _, m := range models {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	return nil
}

// Seed copies every record of src into dst, updating rows that already exist.
func Seed(ctx context.Context, src repo.ParameterRepo, dst repo.ParameterWriter) error {
	fluids, err := src.GetFluids(ctx)
	if err != nil {
		return err
	}
	if err := dst.BatchUpsertFluids(ctx, fluids); err != nil {
		logger.Errorf(ctx, "seed fluids err: %+v", err)
		return err
	}

	solvents, err := src.GetSolvents(ctx)
	if err != nil {
		return err
	}
	if err := dst.BatchUpsertSolvents(ctx, solvents); err != nil {
		logger.Errorf(ctx, "seed solvents err: %+v", err)
		return err
	}

	solutes, err := src.GetSolutes(ctx)
	if err != nil {
		return err
	}
	if err := dst.BatchUpsertSolutes(ctx, solutes); err != nil {
		logger.Errorf(ctx, "seed solutes err: %+v", err)
		return err
	}

	logger.Infof(ctx, "seeded %d fluids, %d solvents, %d solutes", len(fluids), len(solvents), len(solutes))
	return nil
}
