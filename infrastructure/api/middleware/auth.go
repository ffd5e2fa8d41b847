package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	apiKeys [][]byte
	enabled bool
}

// NewAuthConfigWithKeys creates an AuthConfig accepting any of apiKeys.
// With no non-empty keys, authentication is disabled.
func NewAuthConfigWithKeys(apiKeys []string) AuthConfig {
	var keys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}
	return AuthConfig{apiKeys: keys, enabled: len(keys) > 0}
}

// Enabled returns true if authentication is enabled.
func (c AuthConfig) Enabled() bool { return c.enabled }

func (c AuthConfig) valid(key string) bool {
	ok := false
	for _, k := range c.apiKeys {
		if subtle.ConstantTimeCompare(k, []byte(key)) == 1 {
			ok = true
		}
	}
	return ok
}

// APIKey returns a middleware that requires a valid X-API-KEY header.
// If the config has no API keys set, every request passes through.
func APIKey(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-KEY")
			if key == "" {
				WriteError(w, r, NewAuthenticationError("X-API-KEY header is required"), nil)
				return
			}
			if !config.valid(key) {
				WriteError(w, r, NewAuthenticationError("Invalid API key"), nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteProtect is like APIKey but only guards mutating methods. GET, HEAD
// and OPTIONS requests pass without a key.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := APIKey(config)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				guarded.ServeHTTP(w, r)
			}
		})
	}
}
