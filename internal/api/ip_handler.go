package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Cabdinasir64/portfolio-backend/internal/iplookup"
	"github.com/Cabdinasir64/portfolio-backend/internal/logger"
)

// IPLooker fetches the public IP from the upstream.
type IPLooker interface {
	Lookup(ctx context.Context) (iplookup.Result, error)
}

// IPHandler handles GET /ip. It expects the rate limiter and API key gate to
// run before it.
func IPHandler(lookup IPLooker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := lookup.Lookup(r.Context())
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("ip lookup failed")
			if errors.Is(err, iplookup.ErrUpstreamUnavailable) {
				respondMessage(w, http.StatusBadGateway, MessageIPUpstream)
				return
			}
			respondMessage(w, http.StatusInternalServerError, MessageInternalError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"ip": res.IP})
	}
}
