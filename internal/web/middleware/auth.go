// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/haulstack/logistics-api/internal/config"
	"github.com/haulstack/logistics-api/internal/logging"
)

// APIKeyHeader is the shared-secret request header.
const APIKeyHeader = "x-api-key"

// APIKeyAuth returns middleware that validates the x-api-key header
// against the configured shared secret using a constant-time comparison.
// When the secret is left at the placeholder value, authentication is
// bypassed entirely (local/dev escape hatch).
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.AuthEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
				logging.FromContext(r.Context()).Warn("auth: rejected request",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"key_present", key != "",
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","code":"AUTH_INVALID_KEY"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
