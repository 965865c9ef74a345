package postgres

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
func (p *Pool) Migrate(ctx context.Context) (int, error) {
	all, err := migrate.Load(migrationFiles, "migrations")
	if err != nil {
		return 0, err
	}

	_, err = p.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrate.TableName+` (
			version    INTEGER PRIMARY KEY,
			name       TEXT        NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", migrate.TableName, err)
	}

	applied, err := p.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	pending := migrate.Pending(all, applied)
	for _, m := range pending {
		if err := p.apply(ctx, m); err != nil {
			return 0, err
		}
		log.Info().
			Int("version", m.Version).
			Str("name", m.Name).
			Msg("Migration applied")
	}

	return len(pending), nil
}

func (p *Pool) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := p.Query(ctx, `SELECT version FROM `+migrate.TableName)
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

func (p *Pool) apply(ctx context.Context, m migrate.Migration) error {
	tx, err := p.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply migration %d_%s: %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO `+migrate.TableName+` (version, name) VALUES ($1, $2)`,
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("record migration %d: %w", m.Version, err)
	}

	return tx.Commit(ctx)
}
