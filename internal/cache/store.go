package cache

import (
	"context"
	"time"

	"github.com/wonny/tickergrade/pkg/logger"
)

// Shared is a cross-process cache tier, implemented by pkg/redis.Cache
type Shared interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Store is the fetch cache handed to the data service. Lookups go to memory
// first, then the shared tier when configured.
type Store struct {
	memory *Memory
	shared Shared
	logger *logger.Logger
}

// NewStore creates a store. shared may be nil.
func NewStore(memory *Memory, shared Shared, log *logger.Logger) *Store {
	return &Store{
		memory: memory,
		shared: shared,
		logger: log,
	}
}

// Memory returns the in-memory tier
func (s *Store) Memory() *Memory {
	return s.memory
}

// sharedEntry carries the original insertion time across processes so a
// copy from the shared tier expires with its source
type sharedEntry[T any] struct {
	InsertedAt time.Time `json:"inserted_at"`
	Value      T         `json:"value"`
}

// FetchFunc loads a value on a cache miss. ok=false means the value is
// unavailable and must not be cached.
type FetchFunc[T any] func(ctx context.Context) (T, bool)

// Fetch returns the cached value for key, or calls fetch on a miss and
// stores an available result. Concurrent misses on one key may both fetch;
// the later store wins.
func Fetch[T any](ctx context.Context, s *Store, key string, fetch FetchFunc[T]) (T, bool) {
	if v, ok := s.memory.Get(key); ok {
		if typed, ok := v.(T); ok {
			s.logger.WithField("key", key).Debug("Cache hit")
			return typed, true
		}
	}

	if s.shared != nil {
		var e sharedEntry[T]
		found, err := s.shared.Get(ctx, key, &e)
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Shared cache read failed")
		}
		if found && s.memory.SetAt(key, e.Value, e.InsertedAt) {
			s.logger.WithField("key", key).Debug("Shared cache hit")
			return e.Value, true
		}
	}

	s.logger.WithField("key", key).Debug("Cache miss, fetching")
	v, ok := fetch(ctx)
	if !ok {
		return v, false
	}

	// one timestamp for both tiers
	now := s.memory.clock.Now()
	s.memory.SetAt(key, v, now)
	if s.shared != nil {
		e := sharedEntry[T]{InsertedAt: now, Value: v}
		if err := s.shared.Set(ctx, key, e, s.memory.TTL()); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Shared cache write failed")
		}
	}
	return v, true
}
