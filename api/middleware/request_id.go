package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tbeaudouin05/stripe-plugin/api/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags each request with an id, echoed in the response header and
// attached to the request logger derived from base.
func RequestID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := logger.WithContext(r.Context(), base.With("request_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
