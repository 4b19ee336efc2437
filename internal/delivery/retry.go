package delivery

import (
	"math/rand/v2"
	"time"
)

// RetryStrategy implements exponential backoff with jitter.
type RetryStrategy struct {
	MaxRetries int
	Base       time.Duration
	Max        time.Duration
}

// NewRetryStrategy returns a strategy allowing maxRetries retries after the
// first attempt, starting at base and doubling up to 10x base.
func NewRetryStrategy(maxRetries int, base time.Duration) *RetryStrategy {
	return &RetryStrategy{
		MaxRetries: maxRetries,
		Base:       base,
		Max:        10 * base,
	}
}

// ShouldRetry returns true if the retry budget is not exhausted.
func (r *RetryStrategy) ShouldRetry(retryCount int) bool {
	return retryCount < r.MaxRetries
}

// NextBackoff returns the wait before retry number retryCount with jitter
// applied: base * 2^retryCount * (0.5 + rand * 0.5), capped at Max.
func (r *RetryStrategy) NextBackoff(retryCount int) time.Duration {
	d := r.Base
	for i := 0; i < retryCount && d < r.Max; i++ {
		d *= 2
	}
	if d > r.Max {
		d = r.Max
	}
	jitter := 0.5 + rand.Float64()*0.5
	return time.Duration(float64(d) * jitter)
}
