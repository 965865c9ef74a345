package stock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the calendar-date form accepted for purchasedAt
const DateLayout = "2006-01-02"

// Stock represents one tracked stock position
// Maps to the stocks table
type Stock struct {
	ID            int64           `json:"id" db:"id"`
	Ticker        string          `json:"ticker" db:"ticker"`
	Name          string          `json:"name" db:"name"`
	PurchasePrice decimal.Decimal `json:"purchasePrice" db:"purchase_price"`
	Quantity      decimal.Decimal `json:"quantity" db:"quantity"`
	PurchasedAt   time.Time       `json:"purchasedAt" db:"purchased_at"`
	Notes         *string         `json:"notes" db:"notes"`
}

// Value returns the cost basis of the position (price × quantity)
func (s Stock) Value() decimal.Decimal {
	return s.PurchasePrice.Mul(s.Quantity)
}

// CreateInput is the transfer shape for a new position (everything but the id)
type CreateInput struct {
	Ticker        string          `json:"ticker"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasedAt   time.Time       `json:"purchasedAt"`
	Notes         *string         `json:"notes,omitempty"`
}

// Validate performs presence checks on the required fields.
// Amounts are not range checked: zero and negative values are accepted.
func (in CreateInput) Validate() error {
	ve := &ValidationError{}
	if strings.TrimSpace(in.Ticker) == "" {
		ve.Add("ticker", "ticker is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "name is required")
	}
	if in.PurchasedAt.IsZero() {
		ve.Add("purchasedAt", "purchasedAt is required")
	}
	return ve.ErrOrNil()
}

// Normalize trims text fields, drops blank notes and moves the purchase time to UTC
func (in CreateInput) Normalize() CreateInput {
	in.Ticker = strings.TrimSpace(in.Ticker)
	in.Name = strings.TrimSpace(in.Name)
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		if notes == "" {
			in.Notes = nil
		} else {
			in.Notes = &notes
		}
	}
	in.PurchasedAt = in.PurchasedAt.UTC()
	return in
}

// ParseDate parses a purchase timestamp in RFC 3339 or YYYY-MM-DD form
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseID parses an integer position id.
// Zero and negative ids parse fine; they simply never match a stored row.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}
