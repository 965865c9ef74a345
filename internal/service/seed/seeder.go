// Package seed inserts example positions into an empty store.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wonny/stocktracker/internal/domain/stock"
	"gopkg.in/yaml.v3"
)

// Position is the YAML form of a seed position.
// Amounts and dates are kept as text and parsed like API input.
type Position struct {
	Ticker        string `yaml:"ticker"`
	Name          string `yaml:"name"`
	PurchasePrice string `yaml:"purchasePrice"`
	Quantity      string `yaml:"quantity"`
	PurchasedAt   string `yaml:"purchasedAt"`
	Notes         string `yaml:"notes,omitempty"`
}

// File is the layout of a SEED_FILE document
type File struct {
	Positions []Position `yaml:"positions"`
}

// DefaultPositions returns the three positions seeded on first start
func DefaultPositions() []stock.CreateInput {
	return []stock.CreateInput{
		{
			Ticker:        "AAPL",
			Name:          "Apple Inc.",
			PurchasePrice: decimal.RequireFromString("178.50"),
			Quantity:      decimal.NewFromInt(10),
			PurchasedAt:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			Ticker:        "MSFT",
			Name:          "Microsoft Corp.",
			PurchasePrice: decimal.RequireFromString("415.20"),
			Quantity:      decimal.NewFromInt(5),
			PurchasedAt:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Ticker:        "GOOGL",
			Name:          "Alphabet Inc.",
			PurchasePrice: decimal.RequireFromString("141.80"),
			Quantity:      decimal.NewFromInt(8),
			PurchasedAt:   time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}

// LoadFile reads seed positions from a YAML file
func LoadFile(path string) ([]stock.CreateInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML seed document
func Parse(data []byte) ([]stock.CreateInput, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	inputs := make([]stock.CreateInput, 0, len(f.Positions))
	for i, p := range f.Positions {
		in, err := p.toInput()
		if err != nil {
			return nil, fmt.Errorf("seed position %d (%s): %w", i, p.Ticker, err)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func (p Position) toInput() (stock.CreateInput, error) {
	price, err := decimal.NewFromString(p.PurchasePrice)
	if err != nil {
		return stock.CreateInput{}, fmt.Errorf("purchasePrice: %w", err)
	}
	qty, err := decimal.NewFromString(p.Quantity)
	if err != nil {
		return stock.CreateInput{}, fmt.Errorf("quantity: %w", err)
	}
	at, err := stock.ParseDate(p.PurchasedAt)
	if err != nil {
		return stock.CreateInput{}, fmt.Errorf("purchasedAt: %w", err)
	}

	in := stock.CreateInput{
		Ticker:        p.Ticker,
		Name:          p.Name,
		PurchasePrice: price,
		Quantity:      qty,
		PurchasedAt:   at,
	}
	if p.Notes != "" {
		notes := p.Notes
		in.Notes = &notes
	}
	return in, in.Validate()
}

// Seeder fills an empty stocks table
type Seeder struct {
	repo stock.Repository
}

// NewSeeder creates a new Seeder
func NewSeeder(repo stock.Repository) *Seeder {
	return &Seeder{repo: repo}
}

// Seed inserts positions only when the table is empty and returns how many were inserted
func (s *Seeder) Seed(ctx context.Context, positions []stock.CreateInput) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count stocks: %w", err)
	}
	if count > 0 {
		log.Debug().Int("existing", count).Msg("Stocks table not empty, skipping seed")
		return 0, nil
	}

	for i, in := range positions {
		if err := in.Validate(); err != nil {
			return i, fmt.Errorf("seed %s: %w", in.Ticker, err)
		}
		if _, err := s.repo.Create(ctx, in.Normalize()); err != nil {
			return i, fmt.Errorf("seed %s: %w", in.Ticker, err)
		}
	}

	log.Info().Int("inserted", len(positions)).Msg("🌱 Seeded example positions")
	return len(positions), nil
}

// Positions returns the positions from file, or the defaults when file is empty
func Positions(file string) ([]stock.CreateInput, error) {
	if file == "" {
		return DefaultPositions(), nil
	}
	return LoadFile(file)
}
