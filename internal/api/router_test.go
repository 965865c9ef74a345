package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stocktracker/internal/api"
	"github.com/wonny/stocktracker/internal/api/response"
	"github.com/wonny/stocktracker/internal/domain/stock"
	"github.com/wonny/stocktracker/internal/infra/database/sqlite"
	"github.com/wonny/stocktracker/internal/pkg/requestid"
	stocksvc "github.com/wonny/stocktracker/internal/service/stock"
)

const webOrigin = "http://localhost:3099"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	router := api.NewRouter(api.Options{
		Backend:        db,
		Stocks:         stocksvc.NewService(sqlite.NewStockRepository(db)),
		Version:        "test",
		AllowedOrigins: []string{webOrigin},
	})

	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/stocks", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func del(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) response.ErrorDetail {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestListStocks_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/stocks")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCreateStock_ThenListAndGet(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, `{"ticker":"AAPL","name":"Apple Inc.","purchasePrice":178.50,"quantity":10,"purchasedAt":"2024-03-15T00:00:00.000Z"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created stock.Stock
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "AAPL", created.Ticker)
	assert.True(t, decimal.RequireFromString("178.5").Equal(created.PurchasePrice))
	assert.True(t, decimal.NewFromInt(10).Equal(created.Quantity))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), created.PurchasedAt)
	assert.Nil(t, created.Notes)
	assert.Equal(t, "/api/stocks/"+itoa(created.ID), resp.Header.Get("Location"))

	resp = get(t, srv, "/api/stocks")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []stock.Stock
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	resp = get(t, srv, "/api/stocks/"+itoa(created.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched stock.Stock
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, "Apple Inc.", fetched.Name)
}

func TestCreateStock_AcceptsStringAmountsAndDateOnly(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, `{"ticker":"MSFT","name":"Microsoft","purchasePrice":"415.20","quantity":"5","purchasedAt":"2024-06-01","notes":"core"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created stock.Stock
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.True(t, decimal.RequireFromString("415.2").Equal(created.PurchasePrice))
	require.NotNil(t, created.Notes)
	assert.Equal(t, "core", *created.Notes)
}

func TestCreateStock_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, `{"name":"No Ticker"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	detail := decodeError(t, resp)
	assert.Equal(t, response.ErrCodeValidation, detail.Code)

	var fields []string
	for _, f := range detail.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"ticker", "purchasePrice", "quantity", "purchasedAt"}, fields)

	resp = get(t, srv, "/api/stocks")
	var list []stock.Stock
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list)
}

func TestCreateStock_BadInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"ticker":`, response.ErrCodeInvalidBody},
		{"price not a number", `{"ticker":"X","name":"X","purchasePrice":"abc","quantity":1,"purchasedAt":"2024-01-01"}`, response.ErrCodeInvalidBody},
		{"ticker wrong type", `{"ticker":5,"name":"X","purchasePrice":1,"quantity":1,"purchasedAt":"2024-01-01"}`, response.ErrCodeInvalidBody},
		{"bad date", `{"ticker":"X","name":"X","purchasePrice":1,"quantity":1,"purchasedAt":"yesterday"}`, response.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestDeleteStock_Lifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, `{"ticker":"GOOGL","name":"Alphabet","purchasePrice":141.80,"quantity":8,"purchasedAt":"2024-09-10"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	location := resp.Header.Get("Location")

	resp = del(t, srv, location)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = del(t, srv, location)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = get(t, srv, location)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, response.ErrCodeNotFound, decodeError(t, resp).Code)
}

func TestStockID_NotAnInteger(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/stocks/abc", "/api/stocks/1.5"} {
		resp := get(t, srv, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)

		resp = del(t, srv, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestStockID_ZeroAndNegativeAreNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, `{"ticker":"AAPL","name":"Apple","purchasePrice":1,"quantity":1,"purchasedAt":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, path := range []string{"/api/stocks/0", "/api/stocks/-3"} {
		resp := get(t, srv, path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, response.ErrCodeNotFound, decodeError(t, resp).Code)

		resp = del(t, srv, path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	resp = get(t, srv, "/api/stocks")
	var list []stock.Stock
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 1)
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/stocks")
	assert.NotEmpty(t, resp.Header.Get(requestid.Header))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/stocks/999", nil)
	require.NoError(t, err)
	req.Header.Set(requestid.Header, "trace-me")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "trace-me", resp.Header.Get(requestid.Header))
	assert.Equal(t, "trace-me", decodeError(t, resp).RequestID)
}

func TestCORS_Preflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/stocks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", webOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, webOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, srv, "/health").StatusCode)

	resp := get(t, srv, "/health/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ready map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ready))
	assert.Equal(t, "ready", ready["status"])

	resp = get(t, srv, "/health/detailed")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detailed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detailed))
	assert.Equal(t, "test", detailed["version"])
	assert.Equal(t, "healthy", detailed["status"])
	db, ok := detailed["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sqlite", db["driver"])
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, response.ErrCodeNotFound, decodeError(t, resp).Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
