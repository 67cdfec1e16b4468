package ratelimit

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps counters in process. Expired entries are swept lazily.
type MemoryStore struct {
	mu        sync.Mutex
	counters  map[string]*counter
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*counter), now: time.Now}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= window {
		s.sweep(now)
	}

	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = &counter{resetAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return Window{Count: c.count, ResetAfter: c.resetAt.Sub(now)}, nil
}

// Len reports how many keys are tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}

func (s *MemoryStore) sweep(now time.Time) {
	for k, c := range s.counters {
		if !now.Before(c.resetAt) {
			delete(s.counters, k)
		}
	}
	s.lastSweep = now
}
