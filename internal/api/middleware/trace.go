package middleware

import (
	"log/slog"
	"net/http"

	"github.com/lfarias/loyalty-api/internal/api/shared"
	"github.com/lfarias/loyalty-api/internal/platform/logger"
)

// Trace returns a middleware that adds a trace ID to the request context and
// stores a trace-scoped logger alongside it. Apply it early in the chain so
// every handler and service call downstream logs with the same trace ID.
func Trace(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := baseLogger.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
