// Package cache provides the two caching tiers beneath the data fetchers:
// a short-TTL in-memory tier (optionally mirrored into Redis) and a
// file-backed tier for slow-changing series.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/wonny/tickergrade/pkg/clock"
)

// DefaultTTL is the in-memory entry lifetime
const DefaultTTL = 600 * time.Second

type entry struct {
	value      interface{}
	insertedAt time.Time
}

// Stats reports cache effectiveness
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Memory is a TTL map safe for concurrent use. Entries expire a fixed TTL
// after insertion and are evicted lazily on the next access, or by Sweep.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	clock clock.Clock

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory creates an in-memory tier. A nil clock uses the system clock.
func NewMemory(ttl time.Duration, clk clock.Clock) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Memory{
		items: make(map[string]entry),
		ttl:   ttl,
		clock: clk,
	}
}

// TTL returns the entry lifetime
func (m *Memory) TTL() time.Duration {
	return m.ttl
}

// Get returns a live entry
func (m *Memory) Get(key string) (interface{}, bool) {
	now := m.clock.Now()

	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()

	if ok && m.expired(e, now) {
		m.mu.Lock()
		// re-check: a concurrent Set may have refreshed the entry
		if cur, still := m.items[key]; still && m.expired(cur, now) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		ok = false
	}

	if !ok {
		m.misses.Add(1)
		return nil, false
	}
	m.hits.Add(1)
	return e.value, true
}

// Set stores value under key, resetting its insertion time
func (m *Memory) Set(key string, value interface{}) {
	m.mu.Lock()
	m.items[key] = entry{value: value, insertedAt: m.clock.Now()}
	m.mu.Unlock()
}

// SetAt stores value with an insertion time taken from elsewhere, such as
// the shared tier. An entry already expired is not stored and SetAt
// reports false.
func (m *Memory) SetAt(key string, value interface{}, insertedAt time.Time) bool {
	e := entry{value: value, insertedAt: insertedAt}
	if m.expired(e, m.clock.Now()) {
		return false
	}
	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return true
}

// Delete removes key
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

// Sweep evicts every expired entry and returns how many were removed
func (m *Memory) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.items {
		if m.expired(e, now) {
			delete(m.items, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Stats returns hit/miss counters
func (m *Memory) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Entries: m.Len(),
	}
}

func (m *Memory) expired(e entry, now time.Time) bool {
	return now.Sub(e.insertedAt) >= m.ttl
}
