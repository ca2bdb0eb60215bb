package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dropDatabas3/aegis/internal/observability/logger"
)

// WithRequestID asegura un X-Request-ID por request y enriquece el
// logger del contexto con él.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			ctx := setRequestID(r.Context(), rid)
			log := logger.From(ctx).With(logger.RequestID(rid))
			ctx = logger.ToContext(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
