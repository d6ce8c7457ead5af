package marketdata

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tickergrade/internal/cache"
	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/logger"
)

type fakeProviders struct {
	mu       sync.Mutex
	calls    map[string]int
	quoteOK  bool
	name     string
	mdEvents []contracts.EarningsEvent
	fhEvents []contracts.EarningsEvent
	macroOK  bool
}

func (f *fakeProviders) hit(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
}

func (f *fakeProviders) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeProviders) Quote(_ context.Context, ticker string) (contracts.Quote, bool) {
	f.hit("quote")
	return contracts.Quote{Price: 100}, f.quoteOK
}

func (f *fakeProviders) Candles(_ context.Context, ticker string, days int) ([]contracts.PriceBar, bool) {
	f.hit("candles_" + ticker)
	return []contracts.PriceBar{{Close: 1}}, true
}

func (f *fakeProviders) Earnings(_ context.Context, ticker string) ([]contracts.EarningsEvent, bool) {
	f.hit("md_earnings")
	return f.mdEvents, true
}

type fakeFundamentals struct{ *fakeProviders }

func (f fakeFundamentals) CompanyName(context.Context, string) (string, bool) {
	return f.name, f.name != ""
}

func (f fakeFundamentals) Ratings(context.Context, string) ([]contracts.AnalystRating, bool) {
	f.hit("ratings")
	return []contracts.AnalystRating{}, true
}

func (f fakeFundamentals) PriceTarget(context.Context, string) (contracts.PriceTarget, bool) {
	f.hit("targets")
	return contracts.PriceTarget{}, false
}

func (f fakeFundamentals) Metrics(context.Context, string) (contracts.KeyMetrics, bool) {
	return contracts.KeyMetrics{}, true
}

func (f fakeFundamentals) News(context.Context, string) ([]contracts.NewsItem, bool) {
	return nil, true
}

func (f fakeFundamentals) Earnings(context.Context, string) ([]contracts.EarningsEvent, bool) {
	f.hit("fh_earnings")
	return f.fhEvents, true
}

func (f *fakeProviders) MacroSeries(context.Context) (contracts.MacroSeries, bool) {
	f.hit("macro")
	return contracts.MacroSeries{{NetLiquidity: 1}}, f.macroOK
}

func newService(t *testing.T, p *fakeProviders) *Service {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC))
	store := cache.NewStore(cache.NewMemory(10*time.Minute, clk), nil, logger.Nop())
	file := cache.NewFile[contracts.MacroSeries](filepath.Join(t.TempDir(), "fred.json"), 24*time.Hour, clk, logger.Nop())
	return NewService(p, fakeFundamentals{p}, p, store, file, logger.Nop())
}

func TestQuote(t *testing.T) {
	p := &fakeProviders{calls: map[string]int{}, quoteOK: true, name: "Apple Inc"}
	s := newService(t, p)

	q, ok := s.Quote(context.Background(), "AAPL")
	require.True(t, ok)
	assert.Equal(t, "Apple Inc", q.Name)
	assert.Equal(t, "AAPL", q.Symbol)

	_, _ = s.Quote(context.Background(), "AAPL")
	assert.Equal(t, 1, p.count("quote"))
}

func TestQuote_UnavailableIsNotCached(t *testing.T) {
	p := &fakeProviders{calls: map[string]int{}}
	s := newService(t, p)

	_, ok := s.Quote(context.Background(), "ZZZZ")
	assert.False(t, ok)
	_, ok = s.Quote(context.Background(), "ZZZZ")
	assert.False(t, ok)
	assert.Equal(t, 2, p.count("quote"))
}

func TestEmptyResultsAreCached(t *testing.T) {
	p := &fakeProviders{calls: map[string]int{}}
	s := newService(t, p)

	_, ok := s.Ratings(context.Background(), "AAPL")
	require.True(t, ok)
	_, _ = s.Ratings(context.Background(), "AAPL")
	assert.Equal(t, 1, p.count("ratings"))

	_, ok = s.PriceTarget(context.Background(), "AAPL")
	assert.False(t, ok)
	_, _ = s.PriceTarget(context.Background(), "AAPL")
	assert.Equal(t, 2, p.count("targets"))
}

func TestEarnings_FallsBackToFundamentals(t *testing.T) {
	d := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	p := &fakeProviders{calls: map[string]int{}, fhEvents: []contracts.EarningsEvent{{Date: d}}}
	events, ok := newService(t, p).Earnings(context.Background(), "AAPL")
	require.True(t, ok)
	assert.Equal(t, d, events[0].Date)
	assert.Equal(t, 1, p.count("fh_earnings"))

	p = &fakeProviders{calls: map[string]int{}, mdEvents: []contracts.EarningsEvent{{Date: d}}}
	_, ok = newService(t, p).Earnings(context.Background(), "AAPL")
	require.True(t, ok)
	assert.Equal(t, 0, p.count("fh_earnings"))
}

func TestMacro_UsesFileTier(t *testing.T) {
	p := &fakeProviders{calls: map[string]int{}, macroOK: true}
	s := newService(t, p)

	_, ok := s.Macro(context.Background())
	require.True(t, ok)
	_, ok = s.Macro(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1, p.count("macro"))
}

func TestHistoryAndBenchmarkKeys(t *testing.T) {
	p := &fakeProviders{calls: map[string]int{}}
	s := newService(t, p)

	_, _ = s.History(context.Background(), "AAPL", 365)
	_, _ = s.History(context.Background(), "AAPL", 365)
	_, _ = s.History(context.Background(), "AAPL", 120)
	assert.Equal(t, 2, p.count("candles_AAPL"))

	_, ok := s.Benchmark(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1, p.count("candles_SPY"))
	assert.Equal(t, 3, s.CacheStats().Entries)
}
