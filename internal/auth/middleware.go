// Package auth guards endpoints with a shared secret sent in the x-api-key header.
package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/Cabdinasir64/portfolio-backend/internal/logger"
	"github.com/Cabdinasir64/portfolio-backend/internal/metrics"
)

// HeaderAPIKey carries the shared secret.
const HeaderAPIKey = "x-api-key"

// APIKey returns middleware that rejects requests whose x-api-key header does
// not equal secret with 401 {"message":"Unauthorized"}. The comparison is
// constant-time. An empty secret rejects every request.
func APIKey(secret string) func(http.Handler) http.Handler {
	want := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(HeaderAPIKey))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				metrics.APIAuthFailuresTotal.Inc()
				log := logger.FromContext(r.Context())
				log.Warn().
					Bool("key_present", len(got) > 0).
					Str("path", r.URL.Path).
					Msg("api key rejected")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Unauthorized"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
