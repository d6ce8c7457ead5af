package pillars

import (
	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/indicators"
	"github.com/wonny/tickergrade/pkg/logger"
)

const (
	// MinMacroDays is the shortest macro series the macro pillar scores
	MinMacroDays = 20

	trendWindow          = 20
	creditSpreadCeiling  = 4.0
	creditSlopeThreshold = 0.01
)

// MacroDetails explains a macro score
type MacroDetails struct {
	Error string `json:"error,omitempty"`

	NetLiquiditySlope   float64 `json:"net_liquidity_slope"`
	NetLiquidityCurrent float64 `json:"net_liquidity_current"`
	LiquidityBullish    bool    `json:"liquidity_bullish"`
	LiquiditySignal     string  `json:"liquidity_signal"`

	CreditSpread      float64 `json:"credit_spread"`
	CreditSpreadTrend string  `json:"credit_spread_trend"`
	CreditSignal      string  `json:"credit_signal"`
}

// Signal implements contracts.Explainer
func (d MacroDetails) Signal() string {
	if d.Error != "" {
		return insufficientSignal
	}
	return d.LiquiditySignal + " / " + d.CreditSignal
}

// Macro scores net liquidity and credit spread trends
type Macro struct {
	logger *logger.Logger
}

// NewMacro creates a macro scorer
func NewMacro(log *logger.Logger) *Macro {
	return &Macro{logger: log}
}

// Score fits 20-day linear trends to net liquidity and credit spreads
func (s *Macro) Score(series contracts.Optional[contracts.MacroSeries]) (contracts.PillarResult, MacroDetails) {
	data, ok := series.Get()
	if !ok || len(data) < MinMacroDays {
		details := MacroDetails{Error: "Insufficient macro data"}
		return contracts.NewPillarResult(contracts.PillarMacro, Baseline, details), details
	}

	score := Baseline
	details := MacroDetails{}

	liquidity := data.NetLiquidity()
	slope := indicators.Slope(indicators.Tail(liquidity, trendWindow))
	details.NetLiquiditySlope = Round(slope, 2)
	details.NetLiquidityCurrent = Round(liquidity[len(liquidity)-1], 2)
	details.LiquidityBullish = slope > 0
	if slope > 0 {
		score += 2.5
		details.LiquiditySignal = "Liquidity Bullish"
	} else {
		score -= 1.5
		details.LiquiditySignal = "Liquidity Bearish"
	}

	spreads := data.CreditSpreads()
	current := spreads[len(spreads)-1]
	creditSlope := indicators.Slope(indicators.Tail(spreads, trendWindow))
	details.CreditSpread = Round(current, 2)
	if creditSlope > 0 {
		details.CreditSpreadTrend = "Rising"
	} else {
		details.CreditSpreadTrend = "Falling"
	}

	if current > creditSpreadCeiling || creditSlope > creditSlopeThreshold {
		score -= 2.0
		details.CreditSignal = "Risk Off"
	} else {
		score += 1.5
		details.CreditSignal = "Risk On"
	}

	final := Clamp(score)

	s.logger.WithFields(map[string]interface{}{
		"liquidity_slope": details.NetLiquiditySlope,
		"credit_spread":   details.CreditSpread,
		"credit_signal":   details.CreditSignal,
		"score":           final,
	}).Debug("Scored macro")

	return contracts.NewPillarResult(contracts.PillarMacro, final, details), details
}
