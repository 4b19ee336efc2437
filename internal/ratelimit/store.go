// Package ratelimit implements a fixed-window request limiter with
// pluggable counter storage.
package ratelimit

import (
	"context"
	"time"
)

// Window is the state of one caller's counter after a hit.
type Window struct {
	// Count is the number of hits in the current window, including this one.
	Count int64
	// ResetAt is when the current window ends and the count starts over.
	ResetAt time.Time
}

// Store counts hits per key in fixed windows. Hit must be atomic per key:
// concurrent hits never lose an increment.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (Window, error)
}
