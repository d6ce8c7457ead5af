package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/logger"
)

var epoch = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func newStore(clk clock.Clock, shared Shared) *Store {
	return NewStore(NewMemory(10*time.Minute, clk), shared, logger.Nop())
}

func counting(value string, ok bool) (FetchFunc[string], *atomic.Int32) {
	calls := &atomic.Int32{}
	return func(context.Context) (string, bool) {
		calls.Add(1)
		return value, ok
	}, calls
}

func TestMemory_ExpiresFromInsertion(t *testing.T) {
	clk := clock.NewFake(epoch)
	m := NewMemory(time.Minute, clk)

	m.Set("k", 1)
	clk.Advance(30 * time.Second)
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// reads do not extend the lifetime
	clk.Advance(30 * time.Second)
	_, ok = m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_Sweep(t *testing.T) {
	clk := clock.NewFake(epoch)
	m := NewMemory(time.Minute, clk)

	m.Set("old", 1)
	clk.Advance(2 * time.Minute)
	m.Set("new", 2)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	stats := m.Stats()
	assert.Equal(t, 1, stats.Entries)
}

func TestMemory_Defaults(t *testing.T) {
	m := NewMemory(0, nil)
	assert.Equal(t, DefaultTTL, m.TTL())
}

func TestFetch_CachesAvailableValues(t *testing.T) {
	clk := clock.NewFake(epoch)
	s := newStore(clk, nil)
	fetch, calls := counting("v1", true)

	v, ok := Fetch(context.Background(), s, "quote_AAPL", fetch)
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	v, ok = Fetch(context.Background(), s, "quote_AAPL", fetch)
	require.True(t, ok)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(1), calls.Load())

	clk.Advance(10 * time.Minute)
	_, ok = Fetch(context.Background(), s, "quote_AAPL", fetch)
	require.True(t, ok)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_NoNegativeCaching(t *testing.T) {
	s := newStore(clock.NewFake(epoch), nil)
	fetch, calls := counting("", false)

	_, ok := Fetch(context.Background(), s, "news_X", fetch)
	assert.False(t, ok)
	_, ok = Fetch(context.Background(), s, "news_X", fetch)
	assert.False(t, ok)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, s.Memory().Len())
}

func TestFetch_ConcurrentHitsShareOneFetch(t *testing.T) {
	s := newStore(clock.NewFake(epoch), nil)
	fetch, calls := counting("cached", true)

	_, ok := Fetch(context.Background(), s, "targets_MSFT", fetch)
	require.True(t, ok)

	var wg sync.WaitGroup
	results := make([]string, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), s, "targets_MSFT", fetch)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []string{"cached", "cached"}, results)
	assert.Equal(t, int32(1), calls.Load())
}

// fakeShared behaves like the Redis tier: JSON values with a TTL measured on
// the shared clock
type fakeShared struct {
	mu      sync.Mutex
	clock   clock.Clock
	data    map[string]sharedValue
	readErr error
}

type sharedValue struct {
	raw       []byte
	expiresAt time.Time
}

func newFakeShared(clk clock.Clock) *fakeShared {
	return &fakeShared{clock: clk, data: make(map[string]sharedValue)}
}

func (f *fakeShared) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return false, f.readErr
	}
	v, ok := f.data[key]
	if !ok || !f.clock.Now().Before(v.expiresAt) {
		return false, nil
	}
	return true, json.Unmarshal(v.raw, dest)
}

func (f *fakeShared) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = sharedValue{raw: raw, expiresAt: f.clock.Now().Add(ttl)}
	return nil
}

// seed stores value as if another process fetched it at insertedAt
func (f *fakeShared) seed(t *testing.T, key, value string, insertedAt time.Time) {
	t.Helper()
	raw, err := json.Marshal(sharedEntry[string]{InsertedAt: insertedAt, Value: value})
	require.NoError(t, err)
	f.data[key] = sharedValue{raw: raw, expiresAt: insertedAt.Add(10 * time.Minute)}
}

func TestFetch_SharedTier(t *testing.T) {
	clk := clock.NewFake(epoch)
	shared := newFakeShared(clk)
	shared.seed(t, "metrics_IBM", "from-redis", epoch)
	s := newStore(clk, shared)
	fetch, calls := counting("fresh", true)

	v, ok := Fetch(context.Background(), s, "metrics_IBM", fetch)
	require.True(t, ok)
	assert.Equal(t, "from-redis", v)
	assert.Equal(t, int32(0), calls.Load())

	v, ok = Fetch(context.Background(), s, "metrics_AMD", fetch)
	require.True(t, ok)
	assert.Equal(t, "fresh", v)

	var e sharedEntry[string]
	found, err := shared.Get(context.Background(), "metrics_AMD", &e)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "fresh", e.Value)
	assert.True(t, e.InsertedAt.Equal(epoch))
}

func TestFetch_SharedCopyKeepsOriginalAge(t *testing.T) {
	clk := clock.NewFake(epoch)
	shared := newFakeShared(clk)
	a := newStore(clk, shared)
	b := newStore(clk, shared)
	fetch, calls := counting("v1", true)

	_, ok := Fetch(context.Background(), a, "quote_AAPL", fetch)
	require.True(t, ok)

	// b copies the entry one second before it expires
	clk.Advance(599 * time.Second)
	v, ok := Fetch(context.Background(), b, "quote_AAPL", fetch)
	require.True(t, ok)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(1), calls.Load())

	// the copy expires with the original, not 600s after the copy
	clk.Advance(time.Second)
	_, ok = Fetch(context.Background(), b, "quote_AAPL", fetch)
	require.True(t, ok)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_StaleSharedEntryIsRefetched(t *testing.T) {
	clk := clock.NewFake(epoch)
	shared := newFakeShared(clk)
	// Redis TTL still running but the entry is older than the memory TTL
	shared.seed(t, "news_X", "stale", epoch.Add(-11*time.Minute))
	shared.data["news_X"] = sharedValue{raw: shared.data["news_X"].raw, expiresAt: epoch.Add(time.Minute)}
	s := newStore(clk, shared)
	fetch, calls := counting("fresh", true)

	v, ok := Fetch(context.Background(), s, "news_X", fetch)
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMemory_SetAt(t *testing.T) {
	clk := clock.NewFake(epoch)
	m := NewMemory(time.Minute, clk)

	assert.False(t, m.SetAt("old", 1, epoch.Add(-time.Minute)))
	assert.Equal(t, 0, m.Len())

	require.True(t, m.SetAt("k", 2, epoch.Add(-50*time.Second)))
	clk.Advance(10 * time.Second)
	_, ok := m.Get("k")
	assert.False(t, ok)
}

func TestFetch_SharedReadErrorFallsBackToFetch(t *testing.T) {
	shared := newFakeShared(clock.NewFake(epoch))
	shared.readErr = errors.New("connection refused")
	s := newStore(clock.NewFake(epoch), shared)
	fetch, calls := counting("fresh", true)

	v, ok := Fetch(context.Background(), s, "earnings_T", fetch)
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, int32(1), calls.Load())
}

type series struct {
	Points []float64 `json:"points"`
}

func TestFile_FetchAndExpire(t *testing.T) {
	clk := clock.NewFake(epoch)
	path := filepath.Join(t.TempDir(), "nested", "fred_cache.json")
	f := NewFile[series](path, 24*time.Hour, clk, logger.Nop())

	calls := 0
	fetch := func(context.Context) (series, bool) {
		calls++
		return series{Points: []float64{float64(calls)}}, true
	}

	v, ok := f.Fetch(context.Background(), fetch)
	require.True(t, ok)
	assert.Equal(t, []float64{1}, v.Points)
	assert.FileExists(t, path)

	clk.Advance(23 * time.Hour)
	v, ok = f.Fetch(context.Background(), fetch)
	require.True(t, ok)
	assert.Equal(t, []float64{1}, v.Points)
	assert.Equal(t, 1, calls)

	clk.Advance(time.Hour)
	v, ok = f.Fetch(context.Background(), fetch)
	require.True(t, ok)
	assert.Equal(t, []float64{2}, v.Points)
	assert.Equal(t, 2, calls)

	// a second process reads the same file
	other := NewFile[series](path, 24*time.Hour, clk, logger.Nop())
	v, ok = other.Load()
	require.True(t, ok)
	assert.Equal(t, []float64{2}, v.Points)
}

func TestFile_FailedFetchIsUnavailable(t *testing.T) {
	clk := clock.NewFake(epoch)
	path := filepath.Join(t.TempDir(), "fred_cache.json")
	f := NewFile[series](path, time.Hour, clk, logger.Nop())

	_, ok := f.Fetch(context.Background(), func(context.Context) (series, bool) {
		return series{}, false
	})
	assert.False(t, ok)
	assert.NoFileExists(t, path)
}

func TestFile_CorruptFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fred_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f := NewFile[series](path, time.Hour, clock.NewFake(epoch), logger.Nop())
	_, ok := f.Load()
	assert.False(t, ok)

	require.NoError(t, f.Store(series{Points: []float64{7}}))
	v, ok := f.Load()
	require.True(t, ok)
	assert.Equal(t, []float64{7}, v.Points)
}
