// Package counter provides expiring named counters backing the rate
// limiter and the visit tracker.
package counter

import (
	"context"
	"time"
)

// Store increments and reads named counters. Incr creates the key with
// the given TTL when it does not exist yet.
type Store interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
}
