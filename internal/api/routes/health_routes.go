package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wonny/stocktracker/internal/api/handlers"
)

// RegisterHealthRoutes registers liveness and readiness probes
func RegisterHealthRoutes(router *mux.Router, h *handlers.HealthHandler) {
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", h.Ready).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", h.Detailed).Methods(http.MethodGet)
}
