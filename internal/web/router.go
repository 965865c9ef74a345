package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/wonny/stocktracker/internal/api/middleware"
)

// NewRouter wraps the page routes with the same middleware chain as the API
func NewRouter(h *Handler, accessLogger *zerolog.Logger) http.Handler {
	m := mux.NewRouter()
	h.Register(m)

	var handler http.Handler = m
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(middleware.LoggingConfig{AccessLogger: accessLogger})(handler)
	handler = middleware.RequestID(handler)
	return handler
}
