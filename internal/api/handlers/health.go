package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/stocktracker/internal/api/response"
	"github.com/wonny/stocktracker/internal/infra/database"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        database.Backend
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db database.Backend, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: time.Now(),
		version:   version,
	}
}

// SimpleHealthResponse represents a simple health check response
type SimpleHealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents a readiness check response
type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// DetailedHealthResponse represents detailed health information
type DetailedHealthResponse struct {
	Status        string                 `json:"status"`
	Version       string                 `json:"version"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	Timestamp     time.Time              `json:"timestamp"`
	Database      *database.HealthStatus `json:"database"`
}

// Health returns simple liveness check
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, SimpleHealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// Ready reports whether the store answers
// GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if health := h.db.Health(r.Context()); health.Status == database.StatusUnhealthy {
		response.ErrorWithDetails(w, r, http.StatusServiceUnavailable, response.ErrCodeUnavailable,
			"Database connection failed", health.Error)
		return
	}

	response.OK(w, ReadyResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Checks:    map[string]string{"database": "ok"},
	})
}

// Detailed returns store pool statistics and uptime
// GET /health/detailed
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	dbHealth := h.db.Health(r.Context())

	response.OK(w, DetailedHealthResponse{
		Status:        dbHealth.Status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now(),
		Database:      dbHealth,
	})
}
