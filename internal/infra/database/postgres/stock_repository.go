package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/stocktracker/internal/domain/stock"
)

const stockColumns = `id, ticker, name, purchase_price, quantity, purchased_at, notes`

// StockRepository implements stock.Repository using PostgreSQL
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new StockRepository
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// List returns all positions ordered by purchase date, newest first
func (r *StockRepository) List(ctx context.Context) ([]stock.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks
		ORDER BY purchased_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	stocks := []stock.Stock{}
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stocks: %w", err)
	}

	return stocks, nil
}

// GetByID returns a position by id
func (r *StockRepository) GetByID(ctx context.Context, id int64) (*stock.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`

	s, err := scanStock(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stock.ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}

	return s, nil
}

// Create inserts a position; the id comes from the identity column
func (r *StockRepository) Create(ctx context.Context, in stock.CreateInput) (*stock.Stock, error) {
	query := `
		INSERT INTO stocks (ticker, name, purchase_price, quantity, purchased_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + stockColumns

	s, err := scanStock(r.pool.QueryRow(ctx, query,
		in.Ticker, in.Name, in.PurchasePrice, in.Quantity, in.PurchasedAt, in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert stock: %w", err)
	}

	return s, nil
}

// Delete removes a position; false means no row had that id
func (r *StockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete stock: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Count returns the number of stored positions
func (r *StockRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stocks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stocks: %w", err)
	}
	return n, nil
}

func scanStock(row pgx.Row) (*stock.Stock, error) {
	var s stock.Stock
	err := row.Scan(
		&s.ID, &s.Ticker, &s.Name,
		&s.PurchasePrice, &s.Quantity,
		&s.PurchasedAt, &s.Notes,
	)
	if err != nil {
		return nil, err
	}
	s.PurchasedAt = s.PurchasedAt.UTC()
	return &s, nil
}
