package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/newthinker/elite/internal/api/response"
	"github.com/newthinker/elite/internal/core"
)

// APIKeyHeader is the header checked by APIKeyAuth.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth returns middleware that validates the X-API-Key header.
// If apiKey is empty, authentication is disabled.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				response.Error(w, r, http.StatusUnauthorized, core.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
