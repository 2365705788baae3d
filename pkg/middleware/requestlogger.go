package middleware

import (
	"log/slog"
	"net/http"

	"github.com/prjrating/sellerrating/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// trace_id and span_id and stores it in context for logger.FromContext.
// Mount it after RequestLogging and Tracing. Auth adds user_id later.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
