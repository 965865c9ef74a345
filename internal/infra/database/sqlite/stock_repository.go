package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wonny/stocktracker/internal/domain/stock"
)

const stockColumns = `id, ticker, name, purchase_price, quantity, purchased_at, notes`

// StockRepository implements stock.Repository on SQLite.
// Amounts are stored as decimal text so no precision is lost.
type StockRepository struct {
	db *DB
}

// NewStockRepository creates a new StockRepository
func NewStockRepository(db *DB) *StockRepository {
	return &StockRepository{db: db}
}

// List returns all positions ordered by purchase date, newest first
func (r *StockRepository) List(ctx context.Context) ([]stock.Stock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+stockColumns+`
		FROM stocks
		ORDER BY purchased_at DESC, id DESC
	`)
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
	row := r.db.QueryRowContext(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = ?`, id)

	s, err := scanStock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, stock.ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}

	return s, nil
}

// Create inserts a position and returns it with the rowid SQLite assigned
func (r *StockRepository) Create(ctx context.Context, in stock.CreateInput) (*stock.Stock, error) {
	purchasedAt := in.PurchasedAt.UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO stocks (ticker, name, purchase_price, quantity, purchased_at, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.Ticker, in.Name, in.PurchasePrice.String(), in.Quantity.String(), purchasedAt, in.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stock: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &stock.Stock{
		ID:            id,
		Ticker:        in.Ticker,
		Name:          in.Name,
		PurchasePrice: in.PurchasePrice,
		Quantity:      in.Quantity,
		PurchasedAt:   purchasedAt,
		Notes:         in.Notes,
	}, nil
}

// Delete removes a position; false means no row had that id
func (r *StockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stocks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete stock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return n > 0, nil
}

// Count returns the number of stored positions
func (r *StockRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stocks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stocks: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStock(row rowScanner) (*stock.Stock, error) {
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
