package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/logger"
)

// MacroSource returns the cached macro series, refreshing it when stale
type MacroSource interface {
	Macro(ctx context.Context) (contracts.MacroSeries, bool)
}

// macroRefreshTimeout covers the four FRED series fetched in parallel
const macroRefreshTimeout = 2 * time.Minute

// MacroRefreshJob keeps the macro file cache warm before the scan runs
type MacroRefreshJob struct {
	source MacroSource
	logger *logger.Logger
}

// NewMacroRefreshJob creates a new macro refresh job
func NewMacroRefreshJob(source MacroSource, log *logger.Logger) *MacroRefreshJob {
	return &MacroRefreshJob{
		source: source,
		logger: log,
	}
}

// Name returns the job name
func (j *MacroRefreshJob) Name() string {
	return "macro_refresh"
}

// Schedule returns the cron schedule (weekdays at 8:30 PM, before the scan)
func (j *MacroRefreshJob) Schedule() string {
	return "0 30 20 * * 1-5"
}

// Timeout implements scheduler.Bounded
func (j *MacroRefreshJob) Timeout() time.Duration {
	return macroRefreshTimeout
}

// Run loads the macro series through the file cache
func (j *MacroRefreshJob) Run(ctx context.Context) error {
	series, ok := j.source.Macro(ctx)
	if !ok {
		return errors.New("macro series unavailable")
	}

	j.logger.WithField("points", len(series)).Info("Macro series refreshed")
	return nil
}
