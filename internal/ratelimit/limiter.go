package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cabdinasir64/portfolio-backend/internal/logger"
	"github.com/Cabdinasir64/portfolio-backend/internal/metrics"
)

// RejectionMessage is the body message of a 429 response.
const RejectionMessage = "Too many requests, please try again later."

// Decision is the result of checking one request against the limiter.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter allows at most limit requests per caller in each fixed window.
type Limiter struct {
	name   string
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// New creates a Limiter. name scopes its keys in the store and labels its
// metrics, so two limiters may share one store.
func New(name string, store Store, limit int, window time.Duration, log zerolog.Logger) *Limiter {
	return &Limiter{
		name:   name,
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
		log:    log,
	}
}

// Allow records a hit for caller and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, caller string) (Decision, error) {
	w, err := l.store.Hit(ctx, l.key(caller), l.window)
	if err != nil {
		return Decision{}, err
	}

	remaining := l.limit - int(w.Count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   w.Count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   w.ResetAt,
	}, nil
}

func (l *Limiter) key(caller string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.name, caller)
}

// Middleware applies the limiter to next. Every limited response carries
// RateLimit-Limit, RateLimit-Remaining and RateLimit-Reset; rejected ones
// also carry Retry-After. When the store fails the request is let through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := ClientIP(r)

		d, err := l.Allow(r.Context(), caller)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).
				Str("limiter", l.name).
				Str("caller", caller).
				Msg("rate limit store unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		reset := l.secondsUntil(d.ResetAt)
		h := w.Header()
		h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", l.limit, int(l.window.Seconds())))
		h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("RateLimit-Reset", strconv.Itoa(reset))

		if !d.Allowed {
			metrics.RateLimitRejectionsTotal.WithLabelValues(l.name).Inc()
			log := logger.FromContext(r.Context())
			log.Warn().
				Str("limiter", l.name).
				Str("caller", caller).
				Msg("rate limit exceeded")

			h.Set("Retry-After", strconv.Itoa(reset))
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": RejectionMessage})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) secondsUntil(t time.Time) int {
	secs := int(math.Ceil(t.Sub(l.now()).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}

// ClientIP returns the host part of r.RemoteAddr, or RemoteAddr itself when
// it carries no port (as after chi's RealIP middleware).
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
