package pillars

import (
	"time"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/logger"
)

// BlackoutDays is the pre-earnings window that forces a cautious verdict
const BlackoutDays = 15

// EventRiskDetails explains an event-risk score
type EventRiskDetails struct {
	NextEarnings   contracts.Optional[string] `json:"next_earnings"`
	DaysToEarnings contracts.Optional[int]    `json:"days_to_earnings"`
	Blackout       bool                       `json:"blackout"`
	SignalLabel    string                     `json:"signal"`
}

// Signal implements contracts.Explainer
func (d EventRiskDetails) Signal() string {
	return d.SignalLabel
}

// EventRisk scores proximity to the next earnings release
type EventRisk struct {
	logger *logger.Logger
}

// NewEventRisk creates an event-risk scorer
func NewEventRisk(log *logger.Logger) *EventRisk {
	return &EventRisk{logger: log}
}

// Score returns 0 inside the blackout window and 10 otherwise
func (s *EventRisk) Score(ticker string, events []contracts.EarningsEvent, now time.Time) (contracts.PillarResult, EventRiskDetails) {
	details := EventRiskDetails{SignalLabel: "Clear"}
	score := MaxScore

	if next, ok := NextEarnings(events, now); ok {
		days := DaysBetween(now, next.Date)
		details.NextEarnings = contracts.Some(next.Date.Format("2006-01-02"))
		details.DaysToEarnings = contracts.Some(days)
		details.Blackout = InBlackout(days)
	}

	if details.Blackout {
		score = MinScore
		details.SignalLabel = "Earnings Blackout"
	}

	s.logger.WithTicker(ticker).WithFields(map[string]interface{}{
		"next_earnings": details.NextEarnings,
		"blackout":      details.Blackout,
		"score":         score,
	}).Debug("Scored event risk")

	return contracts.NewPillarResult(contracts.PillarEventRisk, score, details), details
}

// InBlackout reports whether days falls in (0, BlackoutDays]
func InBlackout(days int) bool {
	return days > 0 && days <= BlackoutDays
}

// NextEarnings returns the earliest event on or after now's calendar day
func NextEarnings(events []contracts.EarningsEvent, now time.Time) (contracts.EarningsEvent, bool) {
	var best contracts.EarningsEvent
	found := false
	for _, e := range events {
		if e.Date.IsZero() || DaysBetween(now, e.Date) < 0 {
			continue
		}
		if !found || e.Date.Before(best.Date) {
			best = e
			found = true
		}
	}
	return best, found
}

// DaysBetween counts UTC calendar days from from's date to to's date.
// Earnings dates are UTC midnights, so both ends are read in UTC.
func DaysBetween(from, to time.Time) int {
	y1, m1, d1 := from.UTC().Date()
	y2, m2, d2 := to.UTC().Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
