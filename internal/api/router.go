// Package api exposes the contact and IP lookup endpoints over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Cabdinasir64/portfolio-backend/internal/auth"
	"github.com/Cabdinasir64/portfolio-backend/internal/ratelimit"
)

// RouterConfig holds every dependency of the HTTP surface.
type RouterConfig struct {
	Log      zerolog.Logger
	Contact  ContactSubmitter
	IPLookup IPLooker
	// IPLimiter guards /ip and runs before the API key check.
	IPLimiter *ratelimit.Limiter
	IPAPIKey  string

	Readiness    []ReadinessCheck
	CORSOrigins  []string
	TrustProxy   bool
	MaxBodyBytes int64
}

// NewRouter creates a chi.Mux with all routes, middleware, and handlers configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(RecoverMiddleware(cfg.Log))
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", auth.HeaderAPIKey, HeaderCorrelationID},
		ExposedHeaders: []string{
			"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "RateLimit-Policy",
			"Retry-After", HeaderCorrelationID,
		},
		MaxAge: 300,
	}))

	// Operational endpoints
	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler(cfg.Readiness...))
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/contact", ContactHandler(cfg.Contact, cfg.MaxBodyBytes))

	r.With(cfg.IPLimiter.Middleware, auth.APIKey(cfg.IPAPIKey)).
		Get("/ip", IPHandler(cfg.IPLookup))

	return r
}
