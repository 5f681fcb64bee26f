// Package visits tracks page-view totals for the public site.
package visits

import (
	"context"
	"time"

	"github.com/driftwoodweb/studio-api/internal/counter"
	"github.com/driftwoodweb/studio-api/internal/timezone"
)

const (
	totalKey  = "visits:total"
	dayPrefix = "visits:day:"
	dayTTL    = 40 * 24 * time.Hour
)

type Tracker struct {
	store counter.Store
	tz    string
}

func NewTracker(store counter.Store, tz string) *Tracker {
	return &Tracker{store: store, tz: tz}
}

// Record counts one visit against the running total and against the
// site-local day bucket.
func (t *Tracker) Record(ctx context.Context) (int64, error) {
	total, err := t.store.Incr(ctx, totalKey, 0)
	if err != nil {
		return 0, err
	}
	day := dayPrefix + timezone.DateKey(time.Now(), t.tz)
	if _, err := t.store.Incr(ctx, day, dayTTL); err != nil {
		return total, err
	}
	return total, nil
}

func (t *Tracker) Total(ctx context.Context) (int64, error) {
	return t.store.Get(ctx, totalKey)
}

func (t *Tracker) Today(ctx context.Context) (int64, error) {
	return t.store.Get(ctx, dayPrefix+timezone.DateKey(time.Now(), t.tz))
}

// LastDays sums the day buckets for today and the n-1 days before it.
func (t *Tracker) LastDays(ctx context.Context, n int) (int64, error) {
	now := time.Now()

	var sum int64
	for i := 0; i < n; i++ {
		v, err := t.store.Get(ctx, dayPrefix+timezone.DateKey(now.AddDate(0, 0, -i), t.tz))
		if err != nil {
			return sum, err
		}
		sum += v
	}
	return sum, nil
}
