package scanner

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wonny/tickergrade/internal/contracts"
)

// MemoryStore keeps the watchlist and staging table in process
type MemoryStore struct {
	mu        sync.RWMutex
	watchlist map[string]contracts.WatchlistItem
	staging   map[stagingKey]contracts.StagingRecord
}

type stagingKey struct {
	ticker string
	day    string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		watchlist: make(map[string]contracts.WatchlistItem),
		staging:   make(map[stagingKey]contracts.StagingRecord),
	}
}

// List implements contracts.WatchlistRepository
func (m *MemoryStore) List(_ context.Context, category string) ([]contracts.WatchlistItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]contracts.WatchlistItem, 0, len(m.watchlist))
	for _, item := range m.watchlist {
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

// Add implements contracts.WatchlistRepository
func (m *MemoryStore) Add(_ context.Context, item contracts.WatchlistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item.Ticker = strings.ToUpper(item.Ticker)
	if existing, ok := m.watchlist[item.Ticker]; ok {
		item.CreatedAt = existing.CreatedAt
	} else if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	m.watchlist[item.Ticker] = item
	return nil
}

// Remove implements contracts.WatchlistRepository
func (m *MemoryStore) Remove(_ context.Context, ticker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watchlist, strings.ToUpper(ticker))
	return nil
}

// Upsert implements contracts.StagingRepository
func (m *MemoryStore) Upsert(_ context.Context, rec contracts.StagingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ScanDate = ScanDay(rec.ScanDate)
	m.staging[stagingKey{ticker: rec.Ticker, day: rec.ScanDate.Format(dateLayout)}] = rec
	return nil
}

// ListByDate implements contracts.StagingRepository
func (m *MemoryStore) ListByDate(_ context.Context, date time.Time) ([]contracts.StagingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day := ScanDay(date).Format(dateLayout)
	out := []contracts.StagingRecord{}
	for key, rec := range m.staging {
		if key.day == day {
			out = append(out, rec)
		}
	}
	sortStaging(out)
	return out, nil
}

const dateLayout = "2006-01-02"

// sortStaging orders records by score descending, then ticker
func sortStaging(recs []contracts.StagingRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Ticker < recs[j].Ticker
	})
}
