package pillars

import (
	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/logger"
)

// Valuation metrics
const (
	MetricPEG = "PEG"
	MetricPS  = "P/S"
)

// ValueDetails explains a value score
type ValueDetails struct {
	AvgPriceTarget  contracts.Optional[float64] `json:"avg_price_target"`
	UpsidePercent   contracts.Optional[float64] `json:"upside_percent"`
	PEGRatio        contracts.Optional[float64] `json:"peg_ratio"`
	PSRatio         contracts.Optional[float64] `json:"ps_ratio"`
	ValuationMetric string                      `json:"valuation_metric,omitempty"`
	ValuationLabel  string                      `json:"valuation_label"`
	ValuationSignal string                      `json:"valuation_signal"`
}

// Signal implements contracts.Explainer
func (d ValueDetails) Signal() string {
	return d.ValuationSignal
}

// Value scores analyst upside and relative valuation
type Value struct {
	logger *logger.Logger
}

// NewValue creates a value scorer
func NewValue(log *logger.Logger) *Value {
	return &Value{logger: log}
}

// Score scores the upside to the analyst target and the PEG (or P/S) ratio
func (s *Value) Score(ticker string, price float64, target contracts.Optional[contracts.PriceTarget], metrics contracts.Optional[contracts.KeyMetrics]) (contracts.PillarResult, ValueDetails) {
	score := Baseline
	details := ValueDetails{ValuationSignal: "Unknown"}

	if t, ok := target.Get(); ok {
		if avg, ok := t.Average(); ok && price > 0 {
			upside := (avg - price) / price * 100
			details.AvgPriceTarget = contracts.Some(Round(avg, 2))
			details.UpsidePercent = contracts.Some(Round(upside, 2))
			score += upsideAdjustment(upside)
		}
	}

	m, ok := metrics.Get()
	switch {
	case !ok:
		details.ValuationLabel = "No metrics available"
	case positive(m.PEGRatio):
		peg := *m.PEGRatio
		details.PEGRatio = contracts.Some(Round(peg, 2))
		details.ValuationMetric = MetricPEG
		details.ValuationLabel = "Using PEG Ratio TTM"
		switch {
		case peg < 1.0:
			score += 2.5
			details.ValuationSignal = "Undervalued Growth"
		case peg > 2.0:
			score -= 1.5
			details.ValuationSignal = "Overvalued"
		default:
			details.ValuationSignal = "Neutral"
		}
	case positive(m.PSRatio):
		ps := *m.PSRatio
		details.PSRatio = contracts.Some(Round(ps, 2))
		details.ValuationMetric = MetricPS
		details.ValuationLabel = "Using P/S (PEG N/A)"
		switch {
		case ps < 3.0:
			score += 2.0
			details.ValuationSignal = "Cheap Revenue"
		case ps > 10.0:
			score -= 1.5
			details.ValuationSignal = "Expensive"
		default:
			details.ValuationSignal = "Neutral"
		}
	default:
		details.ValuationLabel = "No valuation data"
	}

	final := Clamp(score)

	s.logger.WithTicker(ticker).WithFields(map[string]interface{}{
		"upside": details.UpsidePercent,
		"metric": details.ValuationMetric,
		"signal": details.ValuationSignal,
		"score":  final,
	}).Debug("Scored value")

	return contracts.NewPillarResult(contracts.PillarValue, final, details), details
}

func upsideAdjustment(pct float64) float64 {
	switch {
	case pct > 25:
		return 2.5
	case pct > 15:
		return 2.0
	case pct > 10:
		return 1.0
	case pct < 0:
		return -1.5
	}
	return 0
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}
