// Package cache holds rendered page snapshots for a fixed time window.
// Entries are not invalidated when the underlying data changes; callers
// accept staleness inside the TTL and use Clear for explicit invalidation.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the page-cache contract: read a snapshot if one is still live,
// install a snapshot with a TTL, or drop everything at once. There is no
// partial invalidation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Clear(ctx context.Context)
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Store. Concurrent readers see a consistent
// snapshot; concurrent writers race with last-write-wins, which is fine
// because recomputing a page is idempotent and cheap.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
}
