// Package scanner scores every watchlist ticker and stages the extremes.
package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/logger"
)

// PlaceholderPrefix marks watchlist rows that only keep a category alive
const PlaceholderPrefix = "_PLACEHOLDER_"

// Staging thresholds
const (
	BullishStageScore = 8.0
	BearishStageScore = 5.0
)

// Scorer scores one ticker
type Scorer interface {
	Analyze(ctx context.Context, ticker string) (*contracts.Scorecard, error)
}

// Scanner runs watchlist scans
// ⭐ SSOT: staging decisions are made here only
type Scanner struct {
	scorer    Scorer
	watchlist contracts.WatchlistRepository
	staging   contracts.StagingRepository
	clock     clock.Clock
	logger    *logger.Logger
}

// New creates a scanner
func New(
	scorer Scorer,
	watchlist contracts.WatchlistRepository,
	staging contracts.StagingRepository,
	clk clock.Clock,
	log *logger.Logger,
) *Scanner {
	return &Scanner{
		scorer:    scorer,
		watchlist: watchlist,
		staging:   staging,
		clock:     clk,
		logger:    log,
	}
}

// DirectionFor classifies a final score
func DirectionFor(score float64) contracts.Direction {
	switch {
	case score >= 8.5:
		return contracts.DirectionStrongBullish
	case score >= 6.5:
		return contracts.DirectionBullish
	case score >= 5.0:
		return contracts.DirectionNeutral
	}
	return contracts.DirectionBearish
}

// ShouldStage reports whether a score is extreme enough to stage
func ShouldStage(score float64) bool {
	return score >= BullishStageScore || score <= BearishStageScore
}

// ScanDay truncates t to its UTC calendar day
func ScanDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Run scores the watchlist sequentially. A failing ticker is recorded in
// Errors and the batch continues. category "" scans every category.
func (s *Scanner) Run(ctx context.Context, category string) (*contracts.ScanResult, error) {
	items, err := s.watchlist.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	result := &contracts.ScanResult{
		RunID:  uuid.NewString(),
		Errors: []string{},
	}
	log := s.logger.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"category": category,
	})

	tickers := make([]string, 0, len(items))
	for _, item := range items {
		if strings.HasPrefix(item.Ticker, PlaceholderPrefix) {
			continue
		}
		tickers = append(tickers, strings.ToUpper(item.Ticker))
	}

	if len(tickers) == 0 {
		log.Info("No tickers in watchlist")
		return result, nil
	}
	log.Infof("Scanning %d tickers", len(tickers))

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ticker, err))
			continue
		}

		card, err := s.scorer.Analyze(ctx, ticker)
		if err != nil {
			log.WithTicker(ticker).WithError(err).Warn("Scan failed")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ticker, err))
			continue
		}

		result.Scanned++
		score := card.Composite.FinalScore
		if !ShouldStage(score) {
			continue
		}

		now := s.clock.Now()
		rec := contracts.StagingRecord{
			Ticker:    ticker,
			ScanDate:  ScanDay(now),
			Score:     score,
			Direction: DirectionFor(score),
			RunID:     result.RunID,
			ScannedAt: now,
		}
		if err := s.staging.Upsert(ctx, rec); err != nil {
			log.WithTicker(ticker).WithError(err).Error("Failed to stage scan result")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ticker, err))
			continue
		}

		if score >= BullishStageScore {
			result.Bullish++
		} else {
			result.Bearish++
		}
	}

	log.WithFields(map[string]interface{}{
		"scanned": result.Scanned,
		"bullish": result.Bullish,
		"bearish": result.Bearish,
		"errors":  len(result.Errors),
	}).Info("Scan completed")

	return result, nil
}
