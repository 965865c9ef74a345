package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stocktracker/internal/api/response"
	"github.com/wonny/stocktracker/internal/client"
	"github.com/wonny/stocktracker/internal/domain/stock"
)

// MockStockAPI is a mock implementation of StockAPI
type MockStockAPI struct {
	mock.Mock
}

func (m *MockStockAPI) ListStocks(ctx context.Context) ([]stock.Stock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Stock), args.Error(1)
}

func (m *MockStockAPI) CreateStock(ctx context.Context, in stock.CreateInput) (*stock.Stock, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Stock), args.Error(1)
}

func (m *MockStockAPI) DeleteStock(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestHandler(t *testing.T, api *MockStockAPI) http.Handler {
	t.Helper()
	h, err := NewHandler(api, "USD")
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC) }
	return NewRouter(h, nil)
}

func pos(id int64, ticker string, price, qty string) stock.Stock {
	return stock.Stock{
		ID:            id,
		Ticker:        ticker,
		Name:          ticker + " Corp",
		PurchasePrice: decimal.RequireFromString(price),
		Quantity:      decimal.RequireFromString(qty),
		PurchasedAt:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func postForm(h http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSummarize_TotalValue(t *testing.T) {
	summary := Summarize([]stock.Stock{pos(1, "A", "10", "2"), pos(2, "B", "5", "3")})

	assert.Equal(t, 2, summary.Count)
	assert.True(t, decimal.RequireFromString("35.00").Equal(summary.Total))
	assert.Equal(t, "$35.00", FormatMoney(summary.Total, "USD"))
}

func TestFormatMoney_BeyondInt64MinorUnits(t *testing.T) {
	summary := Summarize([]stock.Stock{pos(1, "BIG", "1000000000000000", "100")})

	assert.True(t, decimal.RequireFromString("100000000000000000").Equal(summary.Total))
	assert.Equal(t, "$100000000000000000.00", FormatMoney(summary.Total, "USD"))
	assert.Equal(t, "-$100000000000000000.00", FormatMoney(summary.Total.Neg(), "USD"))

	// just inside the range still goes through go-money
	assert.Equal(t, "$1,000,000.00", FormatMoney(decimal.NewFromInt(1000000), "USD"))
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Count)
	assert.True(t, summary.Total.IsZero())
	assert.Equal(t, "$0.00", FormatMoney(summary.Total, "XXX-unknown"))
}

func TestIndex_RendersTableAndSummary(t *testing.T) {
	api := new(MockStockAPI)
	api.On("ListStocks", mock.Anything).Return([]stock.Stock{pos(1, "AAPL", "10", "2"), pos(2, "MSFT", "5", "3")}, nil)

	rec := httptest.NewRecorder()
	newTestHandler(t, api).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<span id="count">2</span>`)
	assert.Contains(t, body, `<span id="total">$35.00</span>`)
	assert.Contains(t, body, "AAPL")
	assert.Contains(t, body, `action="/stocks/2/delete"`)
	assert.Contains(t, body, `value="2025-01-02"`)
	assert.NotContains(t, body, "No positions yet")
}

func TestIndex_EmptyState(t *testing.T) {
	api := new(MockStockAPI)
	api.On("ListStocks", mock.Anything).Return([]stock.Stock{}, nil)

	rec := httptest.NewRecorder()
	newTestHandler(t, api).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No positions yet")
}

func TestIndex_TransportFailureRendersEmptyList(t *testing.T) {
	api := new(MockStockAPI)
	api.On("ListStocks", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	rec := httptest.NewRecorder()
	newTestHandler(t, api).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No positions yet")
	assert.Contains(t, rec.Body.String(), "could not be loaded")
	assert.Contains(t, rec.Body.String(), `<span id="total">$0.00</span>`)
}

func TestCreate_EmptyTickerNeverReachesAPI(t *testing.T) {
	api := new(MockStockAPI)
	api.On("ListStocks", mock.Anything).Return([]stock.Stock{}, nil)

	rec := postForm(newTestHandler(t, api), "/stocks", url.Values{
		"ticker":        {""},
		"name":          {"Apple Inc."},
		"purchasePrice": {"178.50"},
		"quantity":      {"10"},
		"purchasedAt":   {"2024-03-15"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ticker is required")
	assert.Contains(t, rec.Body.String(), `value="Apple Inc."`)
	api.AssertNotCalled(t, "CreateStock", mock.Anything, mock.Anything)
}

func TestCreate_SuccessRedirects(t *testing.T) {
	api := new(MockStockAPI)
	api.On("CreateStock", mock.Anything, mock.MatchedBy(func(in stock.CreateInput) bool {
		return in.Ticker == "AAPL" &&
			in.PurchasePrice.Equal(decimal.RequireFromString("178.5")) &&
			in.Notes == nil
	})).Return(&stock.Stock{ID: 7, Ticker: "AAPL"}, nil)

	rec := postForm(newTestHandler(t, api), "/stocks", url.Values{
		"ticker":        {"AAPL"},
		"name":          {"Apple Inc."},
		"purchasePrice": {"178.50"},
		"quantity":      {"10"},
		"purchasedAt":   {"2024-03-15"},
		"notes":         {"   "},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	api.AssertExpectations(t)
}

func TestCreate_APIValidationShownOnForm(t *testing.T) {
	api := new(MockStockAPI)
	api.On("ListStocks", mock.Anything).Return([]stock.Stock{}, nil)
	api.On("CreateStock", mock.Anything, mock.Anything).Return(nil, &client.APIError{
		StatusCode: http.StatusBadRequest,
		Detail: response.ErrorDetail{
			Code:   response.ErrCodeValidation,
			Fields: []response.FieldError{{Field: "name", Message: "name is required"}},
		},
	})

	rec := postForm(newTestHandler(t, api), "/stocks", url.Values{
		"ticker":        {"AAPL"},
		"name":          {"Apple"},
		"purchasePrice": {"1"},
		"quantity":      {"1"},
		"purchasedAt":   {"2024-03-15"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}

func TestForm_Validate(t *testing.T) {
	f := Form{Ticker: "X", Name: "X", PurchasePrice: "abc", Quantity: "", PurchasedAt: "03/15/2024"}
	_, ok := f.Validate()

	assert.False(t, ok)
	assert.Contains(t, f.Errors, "purchasePrice")
	assert.Contains(t, f.Errors, "quantity")
	assert.Contains(t, f.Errors, "purchasedAt")
	assert.NotContains(t, f.Errors, "ticker")
}

func TestDelete(t *testing.T) {
	api := new(MockStockAPI)
	api.On("DeleteStock", mock.Anything, int64(3)).Return(nil)
	api.On("DeleteStock", mock.Anything, int64(4)).Return(stock.ErrStockNotFound)
	api.On("DeleteStock", mock.Anything, int64(5)).Return(errors.New("connection reset"))
	h := newTestHandler(t, api)

	rec := postForm(h, "/stocks/3/delete", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = postForm(h, "/stocks/4/delete", nil)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = postForm(h, "/stocks/5/delete", nil)
	assert.Equal(t, "/?notice="+noticeDeleteFailed, rec.Header().Get("Location"))

	rec = postForm(h, "/stocks/abc/delete", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
