package contracts

import (
	"context"
	"time"
)

// Direction classifies a staged scan result
type Direction string

const (
	DirectionStrongBullish Direction = "Strong Bullish"
	DirectionBullish       Direction = "Bullish"
	DirectionNeutral       Direction = "Neutral"
	DirectionBearish       Direction = "Bearish"
)

// WatchlistItem is a ticker tracked by the scanner
type WatchlistItem struct {
	Ticker    string    `json:"ticker" yaml:"ticker"`
	Category  string    `json:"category" yaml:"category"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// StagingRecord is an extreme-score scan result awaiting review.
// At most one record exists per (Ticker, ScanDate).
type StagingRecord struct {
	Ticker    string    `json:"ticker"`
	ScanDate  time.Time `json:"scan_date"`
	Score     float64   `json:"score"`
	Direction Direction `json:"direction"`
	RunID     string    `json:"run_id"`
	ScannedAt time.Time `json:"scanned_at"`
}

// ScanResult summarises one watchlist scan
type ScanResult struct {
	RunID   string   `json:"run_id"`
	Scanned int      `json:"scanned"`
	Bullish int      `json:"bullish"`
	Bearish int      `json:"bearish"`
	Errors  []string `json:"errors"`
}

// WatchlistRepository stores the scanner watchlist
type WatchlistRepository interface {
	// List returns watchlist items, filtered by category when non-empty
	List(ctx context.Context, category string) ([]WatchlistItem, error)
	Add(ctx context.Context, item WatchlistItem) error
	Remove(ctx context.Context, ticker string) error
}

// StagingRepository stores staged scan results
type StagingRepository interface {
	// Upsert inserts or overwrites the record for (ticker, scan date)
	Upsert(ctx context.Context, rec StagingRecord) error
	ListByDate(ctx context.Context, date time.Time) ([]StagingRecord, error)
}
