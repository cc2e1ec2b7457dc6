package db

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

type LogConf struct {
	Level string
}

type Config struct {
	Driver  string
	Path    string
	Host    string
	Port    int
	User    string
	PW      string
	DBName  string
	LogConf LogConf
}

type Datastore struct {
	db *gorm.DB
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// Open connects to sqlite (a file path, or ":memory:") or postgres.
func Open(ctx context.Context, conf *Config) (*Datastore, error) {
	var dialector gorm.Dialector
	switch conf.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			conf.Host, conf.User, conf.PW, conf.DBName, conf.Port)
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(conf.Path)
	default:
		return nil, code.ParamErr.WithMsgf("unsupported database driver %q", conf.Driver)
	}

	g, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(logLevel(conf.LogConf.Level)),
	})
	if err != nil {
		logger.Errorf(ctx, "open %s database err: %+v", conf.Driver, err)
		return nil, code.QueryRecordErr.WithErr(err)
	}

	if err := g.Use(tracing.NewPlugin(tracing.WithoutQueryVariables())); err != nil {
		logger.Errorf(ctx, "register gorm tracing err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	if conf.Driver == "postgres" {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(2)
	} else {
		// a single connection keeps ":memory:" databases alive across queries
		sqlDB.SetMaxOpenConns(1)
	}
	return &Datastore{db: g}, nil
}

func (d *Datastore) Close(ctx context.Context) {
	if d == nil || d.db == nil {
		return
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		logger.Errorf(ctx, "get sql db err: %+v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Errorf(ctx, "close database err: %+v", err)
	}
}

func logLevel(level string) gormLogger.LogLevel {
	switch level {
	case "debug":
		return gormLogger.Info
	case "warn":
		return gormLogger.Warn
	case "error":
		return gormLogger.Error
	default:
		return gormLogger.Silent
	}
}
