// Package stock implements the position use cases on top of a stock.Repository.
package stock

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wonny/stocktracker/internal/domain/stock"
)

// Service lists, reads, creates and deletes positions.
// It holds no state besides the repository; every mutation commits on its own.
type Service struct {
	repo stock.Repository
}

// NewService creates a new stock service
func NewService(repo stock.Repository) *Service {
	return &Service{repo: repo}
}

// List returns every position, newest purchase first. Never nil.
func (s *Service) List(ctx context.Context) ([]stock.Stock, error) {
	stocks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	if stocks == nil {
		stocks = []stock.Stock{}
	}

	log.Ctx(ctx).Debug().Int("count", len(stocks)).Msg("Stocks listed")
	return stocks, nil
}

// GetByID returns one position or stock.ErrStockNotFound
func (s *Service) GetByID(ctx context.Context, id int64) (*stock.Stock, error) {
	if id <= 0 {
		return nil, stock.ErrStockNotFound
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Create validates presence of the required fields and stores a new position.
// Duplicate tickers are allowed.
func (s *Service) Create(ctx context.Context, in stock.CreateInput) (*stock.Stock, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, in.Normalize())
	if err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}

	log.Ctx(ctx).Info().
		Int64("id", created.ID).
		Str("ticker", created.Ticker).
		Str("quantity", created.Quantity.String()).
		Str("purchase_price", created.PurchasePrice.String()).
		Msg("Stock created")

	return created, nil
}

// Delete removes a position. A missing id is not an error: it reports false.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete stock %d: %w", id, err)
	}

	log.Ctx(ctx).Info().Int64("id", id).Bool("deleted", deleted).Msg("Stock delete requested")
	return deleted, nil
}
