package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mcoot/webgame/internal/middleware"
)

// RequestIDHeader carries the per-request correlation ID
const RequestIDHeader = "X-Request-ID"

// Logging creates logging middleware for the API
// Each request is tagged with an X-Request-ID, reusing the caller's if supplied
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			log := logger.With(slog.String("request_id", requestID))
			middleware.Logging(log)(next).ServeHTTP(w, r)
		})
	}
}
