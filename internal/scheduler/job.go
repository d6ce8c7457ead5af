package scheduler

import (
	"context"
	"time"
)

// Job is one unit of periodic work: a scan, a cache refresh, a sweep
type Job interface {
	Name() string

	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds field first,
	// e.g. "0 0 21 * * 1-5" (weekdays 9 PM) or "@every 10m"
	Schedule() string
}

// Bounded is implemented by jobs whose attempts must finish within a
// deadline. A watchlist scan against rate-limited providers is the case
// that needs it.
type Bounded interface {
	Timeout() time.Duration
}

// JobResult is one run of a job, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobStats summarises a job's retained history
type JobStats struct {
	JobName      string        `json:"job_name"`
	Schedule     string        `json:"schedule"`
	TotalRuns    int           `json:"total_runs"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	SuccessRate  float64       `json:"success_rate"`
	AvgDuration  time.Duration `json:"avg_duration"`
	LastRun      *time.Time    `json:"last_run,omitempty"`
	LastSuccess  *time.Time    `json:"last_success,omitempty"`
	LastFailure  *time.Time    `json:"last_failure,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
}

// defaultHistoryLimit is how many results each job keeps
const defaultHistoryLimit = 100

// jobHistory keeps the latest results of one job, oldest first.
// Callers hold the scheduler lock.
type jobHistory struct {
	results []JobResult
	limit   int
}

func newJobHistory(limit int) *jobHistory {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &jobHistory{limit: limit}
}

func (h *jobHistory) add(result JobResult) {
	h.results = append(h.results, result)
	if over := len(h.results) - h.limit; over > 0 {
		h.results = append(h.results[:0:0], h.results[over:]...)
	}
}

// latest returns a copy of the last n results
func (h *jobHistory) latest(n int) []JobResult {
	if n > len(h.results) || n < 0 {
		n = len(h.results)
	}
	out := make([]JobResult, n)
	copy(out, h.results[len(h.results)-n:])
	return out
}

func (h *jobHistory) stats(name, schedule string) JobStats {
	st := JobStats{
		JobName:   name,
		Schedule:  schedule,
		TotalRuns: len(h.results),
	}
	if st.TotalRuns == 0 {
		return st
	}

	var total time.Duration
	for _, r := range h.results {
		started := r.StartTime
		total += r.Duration
		if r.Success {
			st.SuccessCount++
			st.LastSuccess = &started
		} else {
			st.FailureCount++
			st.LastFailure = &started
			st.LastError = r.Error
		}
	}

	last := h.results[len(h.results)-1].StartTime
	st.LastRun = &last
	st.SuccessRate = float64(st.SuccessCount) / float64(st.TotalRuns)
	st.AvgDuration = total / time.Duration(st.TotalRuns)
	return st
}
