// Package api wires handlers, routes and middleware into the HTTP API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/wonny/stocktracker/internal/api/handlers"
	"github.com/wonny/stocktracker/internal/api/middleware"
	"github.com/wonny/stocktracker/internal/api/response"
	"github.com/wonny/stocktracker/internal/api/routes"
	"github.com/wonny/stocktracker/internal/infra/database"
	stocksvc "github.com/wonny/stocktracker/internal/service/stock"
)

// Options holds everything the router needs
type Options struct {
	Backend        database.Backend
	Stocks         *stocksvc.Service
	Version        string
	AllowedOrigins []string
	AccessLogger   *zerolog.Logger
}

// Router holds all dependencies for API routing
type Router struct {
	handler http.Handler
}

// NewRouter creates a new API router with all dependencies
func NewRouter(opts Options) *Router {
	m := mux.NewRouter()
	m.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusNotFound, response.ErrCodeNotFound, "Route not found")
	})
	m.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusMethodNotAllowed, response.ErrCodeInvalidParameter, "Method not allowed")
	})

	routes.RegisterHealthRoutes(m, handlers.NewHealthHandler(opts.Backend, opts.Version))
	routes.RegisterStocksRoutes(m, handlers.NewStockHandler(opts.Stocks))

	// Outermost first: request id, access log, recovery, CORS.
	// Recovery sits inside the access log so a recovered panic is logged as a 500.
	var h http.Handler = m
	h = middleware.CORS(opts.AllowedOrigins)(h)
	h = middleware.Recovery(h)
	h = middleware.Logging(middleware.LoggingConfig{
		AccessLogger: opts.AccessLogger,
		SkipPaths:    []string{"/health", "/health/ready"},
	})(h)
	h = middleware.RequestID(h)

	return &Router{handler: h}
}

// Handler returns the fully wrapped HTTP handler
func (r *Router) Handler() http.Handler {
	return r.handler
}
