package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/webgame/internal/api/apierr"
	"github.com/mcoot/webgame/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns a JSON internal error quoting the request ID, when Logging assigned one
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	requestID := w.Header().Get(RequestIDHeader)
	// Drop validators a handler may have set before panicking
	w.Header().Del("ETag")
	w.Header().Del("Location")
	apierr.WriteError(w, apierr.NewInternalErrorForRequest(requestID))
}
