package web

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/wonny/stocktracker/internal/domain/stock"
)

// Summary holds the aggregates shown above the positions table
type Summary struct {
	Count int
	Total decimal.Decimal
}

// Summarize counts positions and sums purchasePrice × quantity
func Summarize(stocks []stock.Stock) Summary {
	total := decimal.Zero
	for _, s := range stocks {
		total = total.Add(s.Value())
	}
	return Summary{Count: len(stocks), Total: total}
}

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// FormatMoney renders an amount in the given ISO currency, e.g. "$35.00".
// Unknown codes fall back to USD. Amounts whose minor units do not fit
// an int64 are printed as plain fixed-point text after the currency symbol.
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		text := cur.Grapheme + amount.Abs().StringFixed(int32(cur.Fraction))
		if amount.IsNegative() {
			return "-" + text
		}
		return text
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}
