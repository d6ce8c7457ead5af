// Package composite combines pillar scores into the final score and verdict.
package composite

import (
	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/pillars"
)

// Verdict labels
const (
	VerdictWaitEarnings = "WAIT (Earnings)"
	VerdictStrongBuy    = "Strong Buy"
	VerdictBuy          = "Buy"
	VerdictHold         = "Hold"
	VerdictAvoid        = "Avoid/Sell"
)

// FinalScore is the weighted sum of the pillar scores, one decimal.
// A missing pillar contributes nothing.
func FinalScore(results map[contracts.Pillar]contracts.PillarResult) float64 {
	total := 0.0
	for _, p := range contracts.Pillars {
		if r, ok := results[p]; ok {
			total += r.Score * p.Weight()
		}
	}
	return pillars.Round(total, 1)
}

// Verdict classifies a final score. Blackout overrides every threshold.
func Verdict(score float64, blackout bool) (string, contracts.Severity) {
	if blackout {
		return VerdictWaitEarnings, contracts.SeverityWarning
	}
	switch {
	case score >= 8.0:
		return VerdictStrongBuy, contracts.SeveritySuccess
	case score >= 6.0:
		return VerdictBuy, contracts.SeverityInfo
	case score >= 4.0:
		return VerdictHold, contracts.SeverityWarning
	}
	return VerdictAvoid, contracts.SeverityDanger
}

// Aggregate builds the composite result
func Aggregate(results map[contracts.Pillar]contracts.PillarResult, blackout bool) contracts.CompositeResult {
	score := FinalScore(results)
	verdict, severity := Verdict(score, blackout)
	return contracts.CompositeResult{
		FinalScore: score,
		Verdict:    verdict,
		Severity:   severity,
		Blackout:   blackout,
	}
}
