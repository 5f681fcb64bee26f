package counter

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_IncrAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.Incr(ctx, "hits", 0)
		if err != nil {
			t.Fatalf("Incr failed: %v", err)
		}
		if got != want {
			t.Fatalf("Incr returned %d, want %d", got, want)
		}
	}

	got, err := s.Get(ctx, "hits")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != 3 {
		t.Fatalf("Get returned %d, want 3", got)
	}

	other, err := s.Get(ctx, "misses")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if other != 0 {
		t.Fatalf("unset key returned %d, want 0", other)
	}
}

func TestMemoryStore_TTLExpiresCounter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Incr(ctx, "window", 30*time.Millisecond); err != nil {
		t.Fatalf("Incr failed: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	got, err := s.Get(ctx, "window")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != 0 {
		t.Fatalf("expired key returned %d, want 0", got)
	}

	// A fresh increment starts a new window at 1.
	n, err := s.Incr(ctx, "window", 30*time.Millisecond)
	if err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Incr after expiry returned %d, want 1", n)
	}
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Incr(ctx, "total", 0)
	s.Incr(ctx, "total", 0)

	time.Sleep(20 * time.Millisecond)

	got, err := s.Get(ctx, "total")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != 2 {
		t.Fatalf("Get returned %d, want 2", got)
	}
}
