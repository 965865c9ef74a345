package stock

import "context"

// Repository defines the interface for stock position storage
type Repository interface {
	// List returns all positions, newest purchase first
	List(ctx context.Context) ([]Stock, error)

	// GetByID returns a position by id or ErrStockNotFound
	GetByID(ctx context.Context, id int64) (*Stock, error)

	// Create inserts a position and returns it with its assigned id
	Create(ctx context.Context, in CreateInput) (*Stock, error)

	// Delete removes a position and reports whether a row was removed
	Delete(ctx context.Context, id int64) (bool, error)

	// Count returns the number of stored positions
	Count(ctx context.Context) (int, error)
}
