package middleware

import "net/http"

// AuthConfig holds API key authentication configuration.
type AuthConfig struct {
	apiKeys map[string]struct{}
	enabled bool
}

// NewAuthConfig creates an AuthConfig from a list of keys. An empty or
// all-blank list disables authentication.
func NewAuthConfig(apiKeys []string) AuthConfig {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{apiKeys: keys, enabled: true}
}

// Enabled returns true if authentication is enabled.
func (c AuthConfig) Enabled() bool { return c.enabled }

// WriteProtect returns a middleware requiring a valid X-API-KEY header
// on mutating methods (POST, PUT, PATCH, DELETE). Read methods pass
// through, as does everything when no keys are configured.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.enabled || !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-KEY")
			if key == "" {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
					Error:  "Unauthorized",
					Detail: "X-API-KEY header is required",
				})
				return
			}
			if _, ok := config.apiKeys[key]; !ok {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
					Error:  "Unauthorized",
					Detail: "invalid API key",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
