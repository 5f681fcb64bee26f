package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustInterval(t *testing.T, start, end time.Time, buffer time.Duration) Interval {
	t.Helper()
	iv, err := NewInterval(start, end, buffer)
	if err != nil {
		t.Fatalf("NewInterval returned error: %v", err)
	}
	return iv
}

func TestNewInterval_RejectsInvertedAndEmpty(t *testing.T) {
	at := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	_, err := NewInterval(at, at, 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(at.Add(time.Hour), at, 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestNewInterval_NegativeBufferBecomesZero(t *testing.T) {
	start := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	iv := mustInterval(t, start, start.Add(time.Hour), -5*time.Minute)

	assert.Equal(t, start, iv.BufferedStart())
	assert.Equal(t, start.Add(time.Hour), iv.BufferedEnd())
}

func TestInterval_BufferedBounds(t *testing.T) {
	start := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	iv := mustInterval(t, start, start.Add(time.Hour), 30*time.Minute)

	assert.Equal(t, start.Add(-30*time.Minute), iv.BufferedStart())
	assert.Equal(t, start.Add(90*time.Minute), iv.BufferedEnd())
	assert.Equal(t, time.Hour, iv.Duration())
}

func TestOverlaps_StrictComparisons(t *testing.T) {
	base := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	booked := Stored(base, base.Add(time.Hour)) // 10:00-11:00, no buffer

	// Candidate carries the full 30m buffer.
	cases := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"same slot", base, true},
		{"inside", base.Add(15 * time.Minute), true},
		{"gap before shorter than buffer", base.Add(-(time.Hour + 15*time.Minute)), true},
		{"gap after shorter than buffer", base.Add(time.Hour + 29*time.Minute), true},
		{"gap exactly the buffer", base.Add(time.Hour + 30*time.Minute), false},
		{"touching without buffer considered", base.Add(2 * time.Hour), false},
		{"earlier day", base.Add(-24 * time.Hour), false},
	}

	for _, tc := range cases {
		candidate := mustInterval(t, tc.start, tc.start.Add(time.Hour), 30*time.Minute)
		assert.Equal(t, tc.want, candidate.Overlaps(booked), tc.name)
		assert.Equal(t, tc.want, booked.Overlaps(candidate), tc.name+" (symmetric)")
	}
}

func TestOverlaps_BothSidesBuffered(t *testing.T) {
	base := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	a := mustInterval(t, base, base.Add(time.Hour), 30*time.Minute)
	b := mustInterval(t, base.Add(2*time.Hour), base.Add(3*time.Hour), 30*time.Minute)

	// One hour of air between them, but each adds 30m of buffer: the
	// buffered spans touch at 11:30 without intersecting.
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))

	c := mustInterval(t, base.Add(time.Hour+59*time.Minute), base.Add(2*time.Hour+59*time.Minute), 30*time.Minute)
	assert.True(t, a.Overlaps(c))
}
