package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mistvale/storefront/pkg/logger"
)

// RequestLogger stores a request-scoped logger in context, enriched with
// correlation_id, user_id, trace_id, and span_id. Handlers and the error
// writer retrieve it with logger.FromContext.
//
// Mount after RequestLogging (sets the correlation ID) and Tracing (sets the
// span context); the auth middleware may run later, so user_id is only
// present on routes where Auth wraps the handler chain first.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if userID := UserIDFromContext(ctx); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
