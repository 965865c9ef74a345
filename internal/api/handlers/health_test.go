package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stocktracker/internal/api/response"
	"github.com/wonny/stocktracker/internal/infra/database"
)

// stubBackend reports a fixed health status
type stubBackend struct {
	status *database.HealthStatus
}

func (s *stubBackend) Migrate(ctx context.Context) (int, error)           { return 0, nil }
func (s *stubBackend) Health(ctx context.Context) *database.HealthStatus { return s.status }
func (s *stubBackend) Close()                                            {}

func TestHealthHandler_Ready(t *testing.T) {
	h := NewHealthHandler(&stubBackend{status: &database.HealthStatus{Status: database.StatusHealthy}}, "test")

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
}

func TestHealthHandler_ReadyUnavailable(t *testing.T) {
	h := NewHealthHandler(&stubBackend{status: &database.HealthStatus{
		Status: database.StatusUnhealthy,
		Error:  "ping failed: connection refused",
	}}, "test")

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, response.ErrCodeUnavailable, body.Error.Code)
	assert.Contains(t, body.Error.Details, "connection refused")
}

func TestHealthHandler_Detailed(t *testing.T) {
	h := NewHealthHandler(&stubBackend{status: &database.HealthStatus{
		Driver:   "sqlite",
		Status:   database.StatusHealthy,
		MaxConns: 1,
	}}, "1.2.3")

	rec := httptest.NewRecorder()
	h.Detailed(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, database.StatusHealthy, body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	require.NotNil(t, body.Database)
	assert.Equal(t, "sqlite", body.Database.Driver)
	assert.Equal(t, int32(1), body.Database.MaxConns)
}
