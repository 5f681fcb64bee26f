// Package ratelimit implements a fixed-window limiter over a counter
// store. Windows are keyed by scope, client IP and window start, so a
// Redis-backed store enforces the limit across replicas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/driftwoodweb/studio-api/internal/counter"
)

type Limiter struct {
	store  counter.Store
	window time.Duration
}

func New(store counter.Store) *Limiter {
	return &Limiter{store: store, window: time.Minute}
}

// Allow counts one hit for ip under scope and reports whether it is
// still within limit for the current window. Counter errors fail open.
func (l *Limiter) Allow(ctx context.Context, scope, ip string, limit int) bool {
	if limit <= 0 {
		return true
	}
	windowStart := time.Now().Unix() / int64(l.window.Seconds())
	key := fmt.Sprintf("rl:%s:%s:%d", scope, ip, windowStart)

	n, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return true
	}
	return n <= int64(limit)
}
