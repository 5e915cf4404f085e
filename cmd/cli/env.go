package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	"gospc/adapters/excel"
	"gospc/adapters/ga4export"
	"gospc/adapters/postgres"
	"gospc/adapters/postgres/migrations"
	"gospc/app"
	"gospc/domain/dataset"
	"gospc/internal"
	"gospc/internal/config"
	"gospc/internal/errors"
	"gospc/ports"
)

// env bundles what every command needs: configuration, the service and
// an optional database handle.
type env struct {
	cfg *config.Config
	svc *app.QualityService
	db  *sqlx.DB
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
}

// setup loads configuration and builds the service. The run store is
// attached only when persist is set and DATABASE_URL is configured.
func setup(ctx context.Context, persist bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if level, ok := internal.ParseLogLevel(cfg.LogLevel); ok {
		internal.DefaultLogger = internal.NewLogger(level)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	var store ports.RunStorePort
	if persist && cfg.Database.Enabled() {
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		e.db = db
		store = postgres.NewRunRepository(db)
	}

	e.svc = app.NewQualityService(catalog, store, app.OptionsFromConfig(cfg))
	return e, nil
}

// openDatabase connects and applies pending migrations
func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := postgres.Connect(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	applied, err := migrations.NewMigrator(db).Up(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(applied) > 0 {
		internal.DefaultLogger.Info("applied migrations: %s", strings.Join(applied, ", "))
	}
	return db, nil
}

// loadTable reads a GA4 JSON export, a CSV or an XLSX file
func loadTable(path, sheet, groupColumn string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		export, err := ga4export.ReadFile(path)
		if err != nil {
			return nil, errors.IngestError(path, err)
		}
		return export.Table, nil
	case ".csv", ".xlsx", ".xlsm":
		cfg := excel.DefaultExcelConfig(path)
		cfg.Sheet = sheet
		cfg.GroupColumn = groupColumn
		table, err := excel.LoadTable(cfg)
		if err != nil {
			return nil, errors.IngestError(path, err)
		}
		return table, nil
	}
	return nil, errors.InvalidInput(fmt.Sprintf("unsupported input file %s: expected .json, .csv or .xlsx", path))
}

// loadCube reads a long-format Gage study
func loadCube(path string) (dataset.MeasurementCube, dataset.CubeLayout, error) {
	cube, layout, err := excel.LoadCube(path)
	if err != nil {
		return nil, layout, errors.IngestError(path, err)
	}
	return cube, layout, nil
}
