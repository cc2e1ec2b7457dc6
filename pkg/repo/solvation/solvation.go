package solvation

import (
	"context"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/middleware/db"
	"github.com/scienceol/solvation/pkg/repo"
	"github.com/scienceol/solvation/pkg/repo/model"
	"gorm.io/gorm/clause"
)

type Repo interface {
	repo.ParameterRepo
	repo.ParameterWriter
}

type solvationImpl struct {
	*db.Datastore
}

func New(ds *db.Datastore) Repo {
	return &solvationImpl{Datastore: ds}
}

func (s *solvationImpl) GetSolutes(ctx context.Context) ([]*model.Solute, error) {
	var solutes []*model.Solute
	if err := s.DBWithContext(ctx).Order("id").Find(&solutes).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return solutes, nil
}

func (s *solvationImpl) GetSolvents(ctx context.Context) ([]*model.Solvent, error) {
	var solvents []*model.Solvent
	if err := s.DBWithContext(ctx).Order("id").Find(&solvents).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return solvents, nil
}

func (s *solvationImpl) GetFluids(ctx context.Context) ([]*model.Fluid, error) {
	var fluids []*model.Fluid
	if err := s.DBWithContext(ctx).Order("id").Find(&fluids).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return fluids, nil
}

func (s *solvationImpl) BatchUpsertSolutes(ctx context.Context, solutes []*model.Solute) error {
	if len(solutes) == 0 {
		return nil
	}
	err := s.DBWithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "smiles"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "aliases", "e", "s", "a", "b", "l", "v", "updated_at"}),
	}).Create(&solutes).Error
	if err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (s *solvationImpl) BatchUpsertSolvents(ctx context.Context, solvents []*model.Solvent) error {
	if len(solvents) == 0 {
		return nil
	}
	err := s.DBWithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"aliases", "gibbs", "enthalpy", "tc", "fluid", "updated_at"}),
	}).Create(&solvents).Error
	if err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (s *solvationImpl) BatchUpsertFluids(ctx context.Context, fluids []*model.Fluid) error {
	if len(fluids) == 0 {
		return nil
	}
	err := s.DBWithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"model", "molar_mass", "tc", "pc", "rho_c", "acentric", "rackett_zra",
			"pressure", "liquid_density", "vapor_density", "saturation_table", "updated_at",
		}),
	}).Create(&fluids).Error
	if err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}
