package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/LovedOnes/internal/config"
)

// APIKeyHeader carries the key checked by APIKeyAuth.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth guards the JSON API with a shared key.
// With RequireAPIKey off every request passes. With it on and no keys
// configured every request is rejected (config validation refuses that
// combination at startup).
func APIKeyAuth(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				slog.Warn("auth: missing API key", "path", r.URL.Path, "ip", ClientIP(r))
				writeAuthError(w, http.StatusUnauthorized, "missing API key", "AUTH001")
				return
			}
			if !isValidAPIKey(key, cfg.APIKeys) {
				slog.Warn("auth: invalid API key", "path", r.URL.Path, "ip", ClientIP(r))
				writeAuthError(w, http.StatusForbidden, "invalid API key", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isValidAPIKey compares key against every configured key in constant time.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, k := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return valid == 1
}

func writeAuthError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   msg,
		"message": msg,
		"code":    code,
	})
}
