package booking

import (
	"errors"
	"time"
)

// ===============================
// Interval
// ===============================

// Interval is a half-open [StartAt, EndAt) slot. Buffer widens the
// interval on both sides during overlap checks; stored rows are kept
// raw (Buffer zero) and the candidate under test carries the full
// breathing room between bookings.
type Interval struct {
	StartAt time.Time
	EndAt   time.Time
	Buffer  time.Duration
}

var ErrInvalidInterval = errors.New("interval: start must be before end")

func NewInterval(start, end time.Time, buffer time.Duration) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	if buffer < 0 {
		buffer = 0
	}
	return Interval{StartAt: start, EndAt: end, Buffer: buffer}, nil
}

// Stored wraps a persisted row as a raw interval.
func Stored(start, end time.Time) Interval {
	return Interval{StartAt: start, EndAt: end}
}

func (iv Interval) BufferedStart() time.Time {
	return iv.StartAt.Add(-iv.Buffer)
}

func (iv Interval) BufferedEnd() time.Time {
	return iv.EndAt.Add(iv.Buffer)
}

func (iv Interval) Duration() time.Duration {
	return iv.EndAt.Sub(iv.StartAt)
}

// Overlaps reports whether the buffered spans intersect. Both
// comparisons are strict, so an interval starting exactly where the
// other's buffered span ends does not collide.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.BufferedStart().Before(other.BufferedEnd()) &&
		iv.BufferedEnd().After(other.BufferedStart())
}
