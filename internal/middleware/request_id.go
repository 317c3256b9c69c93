package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"serenity-backend/pkg/logger"
)

// RequestID propagates an incoming X-Request-Id header or generates one,
// echoing it on the response and stashing it in the request context for
// the logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", requestID)

		ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id set by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(logger.RequestIDKey).(string)
	return id
}
