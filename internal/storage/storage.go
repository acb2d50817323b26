// Package storage opens the catalogue selected by configuration.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/H3WH4L3/TTRPG-Helper/internal/config"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage/postgres"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage/sqlite"
)

// Store is a persistent catalogue that can be replaced wholesale.
type Store interface {
	ruleset.Catalog
	Import(ctx context.Context, ds ruleset.Dataset) error
	Close() error
}

// HealthChecker is implemented by catalogues behind a network database.
type HealthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

type postgresStore struct {
	*postgres.CatalogRepository
	pool *postgres.Pool
}

func (s postgresStore) Health(ctx context.Context, timeout time.Duration) error {
	return s.pool.Health(ctx, timeout)
}

func (s postgresStore) Close() error {
	s.pool.Close()
	return nil
}

// OpenStore opens the database-backed catalogue named by cfg.Catalog.Driver.
//
// Precondition: cfg has passed Validate.
// Postcondition: Returns a Store the caller must Close, or a non-nil error.
// The yaml driver is rejected because it cannot be written to.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Catalog.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
		)
		return postgresStore{CatalogRepository: postgres.NewCatalogRepository(pool.DB()), pool: pool}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Catalog.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite catalogue: %w", err)
		}
		logger.Info("sqlite catalogue opened", zap.String("path", cfg.Catalog.SQLitePath))
		return store, nil
	default:
		return nil, fmt.Errorf("catalog driver %q is not a database", cfg.Catalog.Driver)
	}
}

// OpenCatalog opens the catalogue named by cfg.Catalog.Driver for reading.
// The yaml driver loads and validates the dataset into memory.
//
// Postcondition: Returns the catalogue and a release function, or a non-nil error.
func OpenCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) (ruleset.Catalog, func() error, error) {
	if cfg.Catalog.Driver != config.DriverYAML {
		store, err := OpenStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	ds, err := ruleset.LoadDataset(cfg.Catalog.YAMLPath)
	if err != nil {
		return nil, nil, err
	}
	cat, err := ruleset.NewMemoryCatalog(ds)
	if err != nil {
		return nil, nil, fmt.Errorf("validating %s: %w", cfg.Catalog.YAMLPath, err)
	}
	logger.Info("yaml catalogue loaded",
		zap.String("path", cfg.Catalog.YAMLPath),
		zap.Int("classes", len(ds.Classes)),
	)
	return cat, func() error { return nil }, nil
}
