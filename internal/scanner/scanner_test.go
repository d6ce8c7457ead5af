package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/logger"
)

var scanTime = time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)

type stubScorer struct {
	scores map[string]float64
	calls  []string
}

func (s *stubScorer) Analyze(_ context.Context, ticker string) (*contracts.Scorecard, error) {
	s.calls = append(s.calls, ticker)
	score, ok := s.scores[ticker]
	if !ok {
		return nil, errors.New("no quote available")
	}
	return &contracts.Scorecard{
		Ticker:    ticker,
		Composite: contracts.CompositeResult{FinalScore: score},
	}, nil
}

func seed(t *testing.T, store *MemoryStore, items ...contracts.WatchlistItem) {
	t.Helper()
	for _, item := range items {
		require.NoError(t, store.Add(context.Background(), item))
	}
}

func TestDirectionFor(t *testing.T) {
	tests := []struct {
		score float64
		want  contracts.Direction
	}{
		{9.0, contracts.DirectionStrongBullish},
		{8.5, contracts.DirectionStrongBullish},
		{8.4, contracts.DirectionBullish},
		{6.5, contracts.DirectionBullish},
		{6.4, contracts.DirectionNeutral},
		{5.0, contracts.DirectionNeutral},
		{4.9, contracts.DirectionBearish},
		{0, contracts.DirectionBearish},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DirectionFor(tt.score), "score %.1f", tt.score)
	}
}

func TestShouldStage(t *testing.T) {
	assert.True(t, ShouldStage(8.0))
	assert.True(t, ShouldStage(5.0))
	assert.True(t, ShouldStage(2.0))
	assert.False(t, ShouldStage(7.9))
	assert.False(t, ShouldStage(5.1))
}

func TestRun_IsolatesFailures(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store,
		contracts.WatchlistItem{Ticker: "AAPL", Category: "megacap"},
		contracts.WatchlistItem{Ticker: "MSFT", Category: "megacap"},
		contracts.WatchlistItem{Ticker: "NVDA", Category: "semis"},
		contracts.WatchlistItem{Ticker: "AMD", Category: "semis"},
		contracts.WatchlistItem{Ticker: "BAD", Category: "semis"},
	)
	scorer := &stubScorer{scores: map[string]float64{
		"AAPL": 8.7,
		"MSFT": 6.0,
		"NVDA": 8.0,
		"AMD":  4.2,
	}}

	s := New(scorer, store, store, clock.NewFake(scanTime), logger.Nop())
	result, err := s.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Scanned)
	assert.Equal(t, 2, result.Bullish)
	assert.Equal(t, 1, result.Bearish)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "BAD")
	assert.NotEmpty(t, result.RunID)
	assert.Len(t, scorer.calls, 5)

	staged, err := store.ListByDate(context.Background(), scanTime)
	require.NoError(t, err)
	require.Len(t, staged, 3)

	assert.Equal(t, "AAPL", staged[0].Ticker)
	assert.Equal(t, contracts.DirectionStrongBullish, staged[0].Direction)
	assert.Equal(t, "NVDA", staged[1].Ticker)
	assert.Equal(t, contracts.DirectionBullish, staged[1].Direction)
	assert.Equal(t, "AMD", staged[2].Ticker)
	assert.Equal(t, contracts.DirectionBearish, staged[2].Direction)
	assert.Equal(t, result.RunID, staged[2].RunID)
}

func TestRun_CategoryAndPlaceholders(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store,
		contracts.WatchlistItem{Ticker: "AAPL", Category: "megacap"},
		contracts.WatchlistItem{Ticker: "NVDA", Category: "semis"},
		contracts.WatchlistItem{Ticker: PlaceholderPrefix + "SEMIS", Category: "semis"},
	)
	scorer := &stubScorer{scores: map[string]float64{"AAPL": 9, "NVDA": 9}}

	s := New(scorer, store, store, clock.NewFake(scanTime), logger.Nop())
	result, err := s.Run(context.Background(), "semis")
	require.NoError(t, err)

	assert.Equal(t, []string{"NVDA"}, scorer.calls)
	assert.Equal(t, 1, result.Scanned)
	assert.Empty(t, result.Errors)
}

func TestRun_EmptyWatchlist(t *testing.T) {
	s := New(&stubScorer{}, NewMemoryStore(), NewMemoryStore(), clock.NewFake(scanTime), logger.Nop())

	result, err := s.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, result.Scanned)
	assert.NotNil(t, result.Errors)
}

func TestRun_RescanSameDayOverwrites(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store, contracts.WatchlistItem{Ticker: "AAPL", Category: "megacap"})
	scorer := &stubScorer{scores: map[string]float64{"AAPL": 8.2}}
	clk := clock.NewFake(scanTime)
	s := New(scorer, store, store, clk, logger.Nop())

	_, err := s.Run(context.Background(), "")
	require.NoError(t, err)

	scorer.scores["AAPL"] = 3.1
	clk.Advance(time.Hour)
	_, err = s.Run(context.Background(), "")
	require.NoError(t, err)

	staged, err := store.ListByDate(context.Background(), scanTime)
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, 3.1, staged[0].Score)
	assert.Equal(t, contracts.DirectionBearish, staged[0].Direction)
	assert.Equal(t, scanTime.Add(time.Hour), staged[0].ScannedAt)
}

type failingStaging struct{}

func (failingStaging) Upsert(context.Context, contracts.StagingRecord) error {
	return errors.New("disk full")
}

func (failingStaging) ListByDate(context.Context, time.Time) ([]contracts.StagingRecord, error) {
	return nil, nil
}

func TestRun_StagingFailureRecorded(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store, contracts.WatchlistItem{Ticker: "AAPL"})
	scorer := &stubScorer{scores: map[string]float64{"AAPL": 9}}

	s := New(scorer, store, failingStaging{}, clock.NewFake(scanTime), logger.Nop())
	result, err := s.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Scanned)
	assert.Zero(t, result.Bullish)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "disk full")
}

func TestScanDay(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	got := ScanDay(time.Date(2026, 3, 3, 2, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got)
}
