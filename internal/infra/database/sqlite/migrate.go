package sqlite

import (
	"context"
	"embed"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wonny/stocktracker/internal/infra/database/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies pending migrations, each in its own transaction
func (db *DB) Migrate(ctx context.Context) (int, error) {
	all, err := migrate.Load(migrationFiles, "migrations")
	if err != nil {
		return 0, err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrate.TableName+` (
			version    INTEGER PRIMARY KEY,
			name       TEXT      NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", migrate.TableName, err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	pending := migrate.Pending(all, applied)
	for _, m := range pending {
		if err := db.apply(ctx, m); err != nil {
			return 0, err
		}
		log.Info().
			Int("version", m.Version).
			Str("name", m.Name).
			Msg("Migration applied")
	}

	return len(pending), nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM `+migrate.TableName)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (db *DB) apply(ctx context.Context, m migrate.Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply migration %d_%s: %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+migrate.TableName+` (version, name) VALUES (?, ?)`,
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("record migration %d: %w", m.Version, err)
	}

	return tx.Commit()
}
