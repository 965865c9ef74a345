package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wonny/stocktracker/internal/pkg/requestid"
)

// RequestID adds a unique request ID to each request.
// An incoming X-Request-ID header is reused, otherwise a new one is generated.
// The request context also carries a logger tagged with the id, so
// log.Ctx(ctx) in services correlates with the access log.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(requestid.Header, id)

		ctx := requestid.WithID(r.Context(), id)
		reqLogger := log.Logger.With().Str("request_id", id).Logger()
		ctx = reqLogger.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
