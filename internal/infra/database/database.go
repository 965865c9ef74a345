// Package database holds the pieces shared by the store drivers.
package database

import (
	"context"
	"time"
)

// Health states
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents database health status
type HealthStatus struct {
	Driver       string    `json:"driver"`
	Status       string    `json:"status"`
	ResponseTime string    `json:"response_time"`
	ActiveConns  int32     `json:"active_conns"`
	IdleConns    int32     `json:"idle_conns"`
	TotalConns   int32     `json:"total_conns"`
	MaxConns     int32     `json:"max_conns"`
	CheckedAt    time.Time `json:"checked_at"`
	Error        string    `json:"error,omitempty"`
}

// Backend is a connected store driver
type Backend interface {
	// Migrate applies pending schema migrations and returns how many ran
	Migrate(ctx context.Context) (int, error)

	// Health pings the store
	Health(ctx context.Context) *HealthStatus

	Close()
}
