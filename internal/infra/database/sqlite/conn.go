// Package sqlite stores positions in a single SQLite file through go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/wonny/stocktracker/internal/infra/database"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
	path string
}

// Open opens (creating if needed) the SQLite file at path
func Open(ctx context.Context, path string) (*DB, error) {
	log.Info().Str("path", path).Msg("Opening SQLite database...")

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One writer at a time
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	log.Info().Msg("✅ SQLite opened successfully")

	return &DB{DB: db, path: path}, nil
}

// Close closes the database file
func (db *DB) Close() {
	log.Info().Str("path", db.path).Msg("Closing SQLite database...")
	if err := db.DB.Close(); err != nil {
		log.Warn().Err(err).Msg("SQLite close failed")
	}
}

// Health pings the database file
func (db *DB) Health(ctx context.Context) *database.HealthStatus {
	start := time.Now()
	status := &database.HealthStatus{
		Driver:    "sqlite",
		Status:    database.StatusHealthy,
		CheckedAt: start,
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		status.Status = database.StatusUnhealthy
		status.Error = fmt.Sprintf("ping failed: %v", err)
	}

	stats := db.Stats()
	status.ActiveConns = int32(stats.InUse)
	status.IdleConns = int32(stats.Idle)
	status.TotalConns = int32(stats.OpenConnections)
	status.MaxConns = int32(stats.MaxOpenConnections)
	status.ResponseTime = time.Since(start).String()

	return status
}
