package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/momta/momta/internal/clock"
)

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps window counters in a process-local map. State is scoped to
// one running instance; horizontal scaling defeats it, which is why the redis
// store exists for production deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	clock   clock.Clock
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		clock:   clk,
	}
}

func (s *MemoryStore) Check(_ context.Context, identity string, limit int, window time.Duration) (Result, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[identity]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window)}
		s.entries[identity] = e
		return Result{Allowed: true, Remaining: limit - 1, ResetAt: e.resetAt}, nil
	}

	if e.count >= limit {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}, nil
	}

	e.count++
	return Result{Allowed: true, Remaining: limit - e.count, ResetAt: e.resetAt}, nil
}

// Sweep snapshots expired keys under the read lock, then deletes them under
// the write lock, re-checking expiry so a concurrently refreshed window is
// never dropped. Checks are only blocked for the deletion itself.
func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	now := s.clock.Now()

	s.mu.RLock()
	var expired []string
	for identity, e := range s.entries {
		if !now.Before(e.resetAt) {
			expired = append(expired, identity)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return 0, nil
	}

	removed := 0
	s.mu.Lock()
	for _, identity := range expired {
		if e, ok := s.entries[identity]; ok && !now.Before(e.resetAt) {
			delete(s.entries, identity)
			removed++
		}
	}
	s.mu.Unlock()

	return removed, nil
}

// Len reports the number of tracked identities. Test and metrics helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
