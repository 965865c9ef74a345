// Package store opens the configured database driver.
package store

import (
	"context"
	"fmt"

	"github.com/wonny/stocktracker/internal/domain/stock"
	"github.com/wonny/stocktracker/internal/infra/database"
	"github.com/wonny/stocktracker/internal/infra/database/postgres"
	"github.com/wonny/stocktracker/internal/infra/database/sqlite"
	"github.com/wonny/stocktracker/internal/pkg/config"
)

// Store is a connected backend plus its stock repository
type Store struct {
	database.Backend
	Stocks stock.Repository
}

// Open connects to the driver selected by cfg.Database.Driver
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{Backend: pool, Stocks: postgres.NewStockRepository(pool.Pool)}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{Backend: db, Stocks: sqlite.NewStockRepository(db)}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
