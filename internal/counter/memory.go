package counter

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     int64
	expiresAt time.Time
}

// MemoryStore is the fallback used when REDIS_ADDR is not configured.
// Counters live in the process and reset on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, ok := s.entries[key]
	if !ok || (!e.expiresAt.IsZero() && now.After(e.expiresAt)) {
		e = &memoryEntry{}
		if ttl > 0 {
			e.expiresAt = now.Add(ttl)
		}
		s.entries[key] = e
	}
	e.value++

	s.sweepLocked(now)
	return e.value, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return 0, nil
	}
	return e.value, nil
}

// sweepLocked drops expired keys opportunistically so the map does not
// grow without bound. Caller holds the mutex.
func (s *MemoryStore) sweepLocked(now time.Time) {
	if len(s.entries) < 1024 {
		return
	}
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
