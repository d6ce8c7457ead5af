package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/logger"
)

// Scanner runs one watchlist scan
type Scanner interface {
	Run(ctx context.Context, category string) (*contracts.ScanResult, error)
}

// ScanJob scans the whole watchlist after the close
// ⭐ SSOT: the scheduled scan is triggered from this job only
type ScanJob struct {
	scanner  Scanner
	schedule string
	timeout  time.Duration
	logger   *logger.Logger
}

// NewScanJob creates a new scan job. timeout bounds each attempt (SCAN_TIMEOUT).
func NewScanJob(scanner Scanner, schedule string, timeout time.Duration, log *logger.Logger) *ScanJob {
	return &ScanJob{
		scanner:  scanner,
		schedule: schedule,
		timeout:  timeout,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "watchlist_scan"
}

// Schedule returns the configured cron schedule (SCAN_CRON)
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Timeout implements scheduler.Bounded
func (j *ScanJob) Timeout() time.Duration {
	return j.timeout
}

// Run executes the scan. Per-ticker failures do not fail the job.
func (j *ScanJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled watchlist scan")

	result, err := j.scanner.Run(ctx, "")
	if err != nil {
		return fmt.Errorf("scan watchlist: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  result.RunID,
		"scanned": result.Scanned,
		"bullish": result.Bullish,
		"bearish": result.Bearish,
		"errors":  len(result.Errors),
	}).Info("Scheduled scan finished")

	return nil
}
