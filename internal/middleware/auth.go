package middleware

import (
	"net/http"

	"github.com/tunegrab/tunegrab/internal/logger"
)

// APIKeyAuth enforces a shared-secret header on all requests except health
// checks. An empty configured key disables the check entirely, so local
// setups work without extra configuration.
func APIKeyAuth(apiKey string, next http.Handler) http.Handler {
	if apiKey == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		providedKey := r.Header.Get("X-Api-Key")
		if providedKey == "" || providedKey != apiKey {
			logger.Warn(ctx, "missing or invalid api key")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
