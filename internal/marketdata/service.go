// Package marketdata is the cached read path over the upstream providers.
package marketdata

import (
	"context"
	"fmt"

	"github.com/wonny/tickergrade/internal/cache"
	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/logger"
)

// BenchmarkTicker is charted against net liquidity
const BenchmarkTicker = "SPY"

// BenchmarkDays is the history fetched for the benchmark
const BenchmarkDays = 180

// PriceProvider supplies quotes, candles and report dates
type PriceProvider interface {
	Quote(ctx context.Context, ticker string) (contracts.Quote, bool)
	Candles(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, bool)
	Earnings(ctx context.Context, ticker string) ([]contracts.EarningsEvent, bool)
}

// FundamentalsProvider supplies analyst, valuation and news data
type FundamentalsProvider interface {
	CompanyName(ctx context.Context, ticker string) (string, bool)
	Ratings(ctx context.Context, ticker string) ([]contracts.AnalystRating, bool)
	PriceTarget(ctx context.Context, ticker string) (contracts.PriceTarget, bool)
	Metrics(ctx context.Context, ticker string) (contracts.KeyMetrics, bool)
	News(ctx context.Context, ticker string) ([]contracts.NewsItem, bool)
	Earnings(ctx context.Context, ticker string) ([]contracts.EarningsEvent, bool)
}

// MacroProvider supplies the aligned macro series
type MacroProvider interface {
	MacroSeries(ctx context.Context) (contracts.MacroSeries, bool)
}

// Service answers every scoring input through the cache tiers
// ⭐ SSOT: all provider reads pass through here
type Service struct {
	prices       PriceProvider
	fundamentals FundamentalsProvider
	macro        MacroProvider
	store        *cache.Store
	macroFile    *cache.File[contracts.MacroSeries]
	logger       *logger.Logger
}

// NewService creates the cached data service
func NewService(
	prices PriceProvider,
	fundamentals FundamentalsProvider,
	macro MacroProvider,
	store *cache.Store,
	macroFile *cache.File[contracts.MacroSeries],
	log *logger.Logger,
) *Service {
	return &Service{
		prices:       prices,
		fundamentals: fundamentals,
		macro:        macro,
		store:        store,
		macroFile:    macroFile,
		logger:       log,
	}
}

// Quote returns the price snapshot named after the company when known
func (s *Service) Quote(ctx context.Context, ticker string) (contracts.Quote, bool) {
	return cache.Fetch(ctx, s.store, "quote_"+ticker, func(ctx context.Context) (contracts.Quote, bool) {
		q, ok := s.prices.Quote(ctx, ticker)
		if !ok {
			return q, false
		}
		q.Symbol = ticker
		q.Name = ticker
		if name, ok := s.fundamentals.CompanyName(ctx, ticker); ok {
			q.Name = name
		}
		return q, true
	})
}

// History returns daily bars over the last days calendar days
func (s *Service) History(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, bool) {
	key := fmt.Sprintf("historical_%s_%d", ticker, days)
	return cache.Fetch(ctx, s.store, key, func(ctx context.Context) ([]contracts.PriceBar, bool) {
		return s.prices.Candles(ctx, ticker, days)
	})
}

// Ratings returns recent analyst rating changes
func (s *Service) Ratings(ctx context.Context, ticker string) ([]contracts.AnalystRating, bool) {
	return cache.Fetch(ctx, s.store, "analyst_"+ticker, func(ctx context.Context) ([]contracts.AnalystRating, bool) {
		return s.fundamentals.Ratings(ctx, ticker)
	})
}

// News returns recent headlines
func (s *Service) News(ctx context.Context, ticker string) ([]contracts.NewsItem, bool) {
	return cache.Fetch(ctx, s.store, "news_"+ticker, func(ctx context.Context) ([]contracts.NewsItem, bool) {
		return s.fundamentals.News(ctx, ticker)
	})
}

// PriceTarget returns the analyst target consensus
func (s *Service) PriceTarget(ctx context.Context, ticker string) (contracts.PriceTarget, bool) {
	return cache.Fetch(ctx, s.store, "targets_"+ticker, func(ctx context.Context) (contracts.PriceTarget, bool) {
		return s.fundamentals.PriceTarget(ctx, ticker)
	})
}

// Metrics returns valuation ratios
func (s *Service) Metrics(ctx context.Context, ticker string) (contracts.KeyMetrics, bool) {
	return cache.Fetch(ctx, s.store, "metrics_"+ticker, func(ctx context.Context) (contracts.KeyMetrics, bool) {
		return s.fundamentals.Metrics(ctx, ticker)
	})
}

// Earnings returns the next report date. The price provider is asked first;
// the fundamentals calendar is the fallback when it has nothing.
func (s *Service) Earnings(ctx context.Context, ticker string) ([]contracts.EarningsEvent, bool) {
	return cache.Fetch(ctx, s.store, "earnings_"+ticker, func(ctx context.Context) ([]contracts.EarningsEvent, bool) {
		if events, ok := s.prices.Earnings(ctx, ticker); ok && len(events) > 0 {
			return events, true
		}
		return s.fundamentals.Earnings(ctx, ticker)
	})
}

// Macro returns the net-liquidity series from the file tier
func (s *Service) Macro(ctx context.Context) (contracts.MacroSeries, bool) {
	return s.macroFile.Fetch(ctx, s.macro.MacroSeries)
}

// Benchmark returns the benchmark's recent daily bars
func (s *Service) Benchmark(ctx context.Context) ([]contracts.PriceBar, bool) {
	return cache.Fetch(ctx, s.store, "spy_data", func(ctx context.Context) ([]contracts.PriceBar, bool) {
		bars, ok := s.prices.Candles(ctx, BenchmarkTicker, BenchmarkDays)
		if !ok || len(bars) == 0 {
			return nil, false
		}
		return bars, true
	})
}

// CacheStats reports the in-memory tier counters
func (s *Service) CacheStats() cache.Stats {
	return s.store.Memory().Stats()
}
