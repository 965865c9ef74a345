// Package client is the typed HTTP client the web frontend uses to reach the API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wonny/stocktracker/internal/api/response"
	"github.com/wonny/stocktracker/internal/domain/stock"
	"github.com/wonny/stocktracker/internal/pkg/requestid"
)

const stocksPath = "/api/stocks"

// APIError is returned for any non-success status the client does not map to a sentinel
type APIError struct {
	StatusCode int
	Detail     response.ErrorDetail
}

func (e *APIError) Error() string {
	if e.Detail.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Detail.Code, e.Detail.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// createRequest is the POST body. The date is sent as an ISO-8601 timestamp.
type createRequest struct {
	Ticker        string          `json:"ticker"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasedAt   string          `json:"purchasedAt"`
	Notes         *string         `json:"notes,omitempty"`
}

// Client calls the stock API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListStocks returns every position, newest purchase first
func (c *Client) ListStocks(ctx context.Context) ([]stock.Stock, error) {
	var stocks []stock.Stock
	if err := c.do(ctx, http.MethodGet, stocksPath, nil, http.StatusOK, &stocks); err != nil {
		return nil, err
	}
	if stocks == nil {
		stocks = []stock.Stock{}
	}
	return stocks, nil
}

// GetStock returns one position. stock.ErrStockNotFound when absent.
func (c *Client) GetStock(ctx context.Context, id int64) (*stock.Stock, error) {
	var s stock.Stock
	if err := c.do(ctx, http.MethodGet, stockPath(id), nil, http.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStock creates a position and returns it with its assigned id
func (c *Client) CreateStock(ctx context.Context, in stock.CreateInput) (*stock.Stock, error) {
	req := createRequest{
		Ticker:        in.Ticker,
		Name:          in.Name,
		PurchasePrice: in.PurchasePrice,
		Quantity:      in.Quantity,
		PurchasedAt:   in.PurchasedAt.UTC().Format(time.RFC3339Nano),
		Notes:         in.Notes,
	}

	var s stock.Stock
	if err := c.do(ctx, http.MethodPost, stocksPath, req, http.StatusCreated, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteStock removes a position. stock.ErrStockNotFound when absent.
func (c *Client) DeleteStock(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, stockPath(id), nil, http.StatusNoContent, nil)
}

func stockPath(id int64) string {
	return stocksPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Ctx(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API call")

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope response.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Detail = envelope.Error
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", stock.ErrStockNotFound, apiErr.Error())
	}
	return apiErr
}

// IsNotFound reports whether err came from a 404
func IsNotFound(err error) bool {
	return errors.Is(err, stock.ErrStockNotFound)
}
