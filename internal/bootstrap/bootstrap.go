package bootstrap

import (
	"context"

	"github.com/scienceol/solvation/internal/config"
	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/report"
	"github.com/scienceol/solvation/pkg/core/report/render"
	"github.com/scienceol/solvation/pkg/core/solvation"
	"github.com/scienceol/solvation/pkg/core/solvation/database"
	sImpl "github.com/scienceol/solvation/pkg/core/solvation/solvation"
	"github.com/scienceol/solvation/pkg/core/structure"
	"github.com/scienceol/solvation/pkg/core/structure/fallback"
	"github.com/scienceol/solvation/pkg/core/structure/smiles"
	"github.com/scienceol/solvation/pkg/core/thermo/eos"
	"github.com/scienceol/solvation/pkg/middleware/db"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/repo"
	"github.com/scienceol/solvation/pkg/repo/dataset"
	"github.com/scienceol/solvation/pkg/repo/pubchem"
	sStore "github.com/scienceol/solvation/pkg/repo/solvation"
)

// App holds everything a command needs, built once from the config.
type App struct {
	Solvation solvation.Service
	Report    report.Service

	datastore *db.Datastore
}

func New(ctx context.Context, conf *config.GlobalConfig) (*App, error) {
	app := &App{}
	src, err := app.parameterSource(ctx, conf)
	if err != nil {
		return nil, err
	}

	fluids, err := src.GetFluids(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	provider, err := eos.New(fluids)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	store, err := database.New(ctx, src, NewResolver(conf))
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	rep, err := render.New(&render.Config{
		Dir:    conf.Report.Dir,
		Format: conf.Report.Format,
		CSV:    conf.Report.CSV,
	})
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	app.Solvation = sImpl.New(store, provider)
	app.Report = rep
	return app, nil
}

func (a *App) parameterSource(ctx context.Context, conf *config.GlobalConfig) (repo.ParameterRepo, error) {
	switch conf.Dataset.Source {
	case config.DatasetEmbedded, "":
		return dataset.NewEmbedded(), nil
	case config.DatasetFile:
		logger.Infof(ctx, "loading dataset from %s", conf.Dataset.Dir)
		return dataset.NewDir(conf.Dataset.Dir), nil
	case config.DatasetDatabase:
		ds, err := OpenDatastore(ctx, conf)
		if err != nil {
			return nil, err
		}
		a.datastore = ds
		return sStore.New(ds), nil
	default:
		return nil, code.ParamErr.WithMsgf("unsupported dataset source %q", conf.Dataset.Source)
	}
}

// NewResolver returns the SMILES resolver, backed by PubChem when enabled.
func NewResolver(conf *config.GlobalConfig) structure.Resolver {
	r := smiles.New()
	if !conf.RPC.PubChem.Enabled {
		return r
	}
	return fallback.New(r, pubchem.NewPubChemRepo(&pubchem.Config{
		Addr:    conf.RPC.PubChem.Addr,
		Timeout: conf.RPC.PubChem.Timeout,
	}))
}

func OpenDatastore(ctx context.Context, conf *config.GlobalConfig) (*db.Datastore, error) {
	return db.Open(ctx, &db.Config{
		Driver:  string(conf.Database.Driver),
		Path:    conf.Database.Path,
		Host:    conf.Database.Host,
		Port:    conf.Database.Port,
		User:    conf.Database.User,
		PW:      conf.Database.Password,
		DBName:  conf.Database.Name,
		LogConf: db.LogConf{Level: conf.Log.LogLevel},
	})
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.datastore.Close(ctx)
	a.datastore = nil
}
