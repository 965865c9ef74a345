package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wonny/stocktracker/internal/api/handlers"
)

// RegisterStocksRoutes registers the position endpoints under /api/stocks
func RegisterStocksRoutes(router *mux.Router, h *handlers.StockHandler) {
	api := router.PathPrefix("/api/stocks").Subrouter()

	api.HandleFunc("", h.List).Methods(http.MethodGet)
	api.HandleFunc("", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)
}
