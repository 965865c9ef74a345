package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wonny/stocktracker/internal/domain/stock"
)

// Form is the create form as typed by the user
type Form struct {
	Ticker        string
	Name          string
	PurchasePrice string
	Quantity      string
	PurchasedAt   string
	Notes         string

	Errors map[string]string
}

// DefaultForm is the empty form: blank text, zero amounts, today's date
func DefaultForm(now time.Time) Form {
	return Form{
		PurchasePrice: "0",
		Quantity:      "0",
		PurchasedAt:   now.Format(stock.DateLayout),
	}
}

// ParseForm reads the six create fields from a submitted request
func ParseForm(r *http.Request) (Form, error) {
	if err := r.ParseForm(); err != nil {
		return Form{}, err
	}
	return Form{
		Ticker:        strings.TrimSpace(r.PostFormValue("ticker")),
		Name:          strings.TrimSpace(r.PostFormValue("name")),
		PurchasePrice: strings.TrimSpace(r.PostFormValue("purchasePrice")),
		Quantity:      strings.TrimSpace(r.PostFormValue("quantity")),
		PurchasedAt:   strings.TrimSpace(r.PostFormValue("purchasedAt")),
		Notes:         r.PostFormValue("notes"),
	}, nil
}

// Validate checks required fields before anything is sent to the API.
// It fills f.Errors and reports whether the form can be submitted.
func (f *Form) Validate() (stock.CreateInput, bool) {
	f.Errors = map[string]string{}
	in := stock.CreateInput{Ticker: f.Ticker, Name: f.Name}

	if f.Ticker == "" {
		f.Errors["ticker"] = "Ticker is required"
	}
	if f.Name == "" {
		f.Errors["name"] = "Name is required"
	}

	if f.PurchasePrice == "" {
		f.Errors["purchasePrice"] = "Purchase price is required"
	} else if d, err := decimal.NewFromString(f.PurchasePrice); err != nil {
		f.Errors["purchasePrice"] = "Purchase price must be a number"
	} else {
		in.PurchasePrice = d
	}

	if f.Quantity == "" {
		f.Errors["quantity"] = "Quantity is required"
	} else if d, err := decimal.NewFromString(f.Quantity); err != nil {
		f.Errors["quantity"] = "Quantity must be a number"
	} else {
		in.Quantity = d
	}

	if f.PurchasedAt == "" {
		f.Errors["purchasedAt"] = "Purchase date is required"
	} else if at, err := stock.ParseDate(f.PurchasedAt); err != nil {
		f.Errors["purchasedAt"] = "Purchase date must be YYYY-MM-DD"
	} else {
		in.PurchasedAt = at
	}

	if notes := strings.TrimSpace(f.Notes); notes != "" {
		in.Notes = &notes
	}

	return in, len(f.Errors) == 0
}
