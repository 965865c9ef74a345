package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/wonny/stocktracker/internal/pkg/requestid"
)

// CORS allows the web frontend origins to call the API from a browser
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", requestid.Header}),
		handlers.ExposedHeaders([]string{"Location", requestid.Header}),
		handlers.MaxAge(43200),
	)
}
