package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// LoggingMiddleware tags every request with a short request id and logs
// method, path and duration.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()[:8]
			w.Header().Set("X-Request-Id", requestID)
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Printf("[%s] %s %s (%s)", requestID, r.Method, r.URL.Path, time.Since(start))
		})
	}
}
