package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cabdinasir64/portfolio-backend/internal/metrics"
)

const (
	defaultCheckInterval = 30 * time.Second
	defaultCheckTimeout  = 10 * time.Second
	unhealthyThreshold   = 3
)

// HealthStatus is the last known health of one provider.
type HealthStatus struct {
	Healthy             bool
	LastCheck           time.Time
	ConsecutiveFailures int
	LastError           string
}

// HealthChecker polls mail providers in the background. A provider is
// unhealthy until its first successful check. After that it turns unhealthy
// after three consecutive failed checks and healthy again after one success,
// so a single dropped connection does not flip readiness.
type HealthChecker struct {
	providers []Provider
	interval  time.Duration
	timeout   time.Duration
	log       zerolog.Logger

	mu       sync.RWMutex
	statuses map[string]HealthStatus

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewHealthChecker creates a checker for providers. Transitions between
// healthy and unhealthy are logged to log.
func NewHealthChecker(log zerolog.Logger, providers ...Provider) *HealthChecker {
	return &HealthChecker{
		providers: providers,
		interval:  defaultCheckInterval,
		timeout:   defaultCheckTimeout,
		log:       log,
		statuses:  make(map[string]HealthStatus, len(providers)),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs one check of every provider right away, then one per interval.
func (hc *HealthChecker) Start() {
	go hc.loop()
}

// Stop ends the polling loop and waits for an in-flight check to finish.
// It must only be called after Start.
func (hc *HealthChecker) Stop() {
	hc.stopOnce.Do(func() { close(hc.stop) })
	<-hc.done
}

func (hc *HealthChecker) status(name string) (HealthStatus, bool) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	st, ok := hc.statuses[name]
	return st, ok
}

// Ready returns an error naming the first provider that is unhealthy or has
// not completed a check yet. It never contacts the providers itself.
func (hc *HealthChecker) Ready(_ context.Context) error {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	for _, p := range hc.providers {
		st, ok := hc.statuses[p.GetName()]
		switch {
		case !ok:
			return fmt.Errorf("provider %s: not checked yet", p.GetName())
		case !st.Healthy:
			return fmt.Errorf("provider %s: unhealthy after %d failed checks: %s",
				p.GetName(), st.ConsecutiveFailures, st.LastError)
		}
	}
	return nil
}

func (hc *HealthChecker) loop() {
	defer close(hc.done)

	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		hc.checkAll()
		select {
		case <-hc.stop:
			return
		case <-ticker.C:
		}
	}
}

func (hc *HealthChecker) checkAll() {
	for _, p := range hc.providers {
		ctx, cancel := context.WithTimeout(context.Background(), hc.timeout)
		err := p.HealthCheck(ctx)
		cancel()
		hc.record(p.GetName(), err, time.Now())
	}
}

func (hc *HealthChecker) record(name string, err error, at time.Time) {
	hc.mu.Lock()
	prev, seen := hc.statuses[name]
	next := HealthStatus{Healthy: prev.Healthy, LastCheck: at}
	if err != nil {
		next.ConsecutiveFailures = prev.ConsecutiveFailures + 1
		next.LastError = err.Error()
		if next.ConsecutiveFailures >= unhealthyThreshold {
			next.Healthy = false
		}
	} else {
		next.Healthy = true
	}
	hc.statuses[name] = next
	hc.mu.Unlock()

	up := 0.0
	if next.Healthy {
		up = 1
	}
	metrics.MailProviderUp.WithLabelValues(name).Set(up)

	switch {
	case seen && prev.Healthy && !next.Healthy:
		hc.log.Error().Err(err).Str("provider", name).
			Int("consecutive_failures", next.ConsecutiveFailures).
			Msg("mail provider marked unhealthy")
	case seen && !prev.Healthy && next.Healthy:
		hc.log.Info().Str("provider", name).Msg("mail provider recovered")
	case err != nil:
		hc.log.Warn().Err(err).Str("provider", name).
			Int("consecutive_failures", next.ConsecutiveFailures).
			Msg("mail provider health check failed")
	}
}
