// Package actioncard derives trade levels from the technicals and value pillars.
package actioncard

import (
	"math"

	"github.com/wonny/tickergrade/internal/contracts"
)

const (
	// Methods
	MethodATR     = "atr"
	MethodSupport = "support"

	atrStopMultiple   = 2.5
	atrTargetMultiple = 5.0
	minStopFraction   = 0.04
	fallbackStop      = 0.95
	fallbackTarget    = 1.10
)

// Inputs are the pillar outputs the card is derived from
type Inputs struct {
	Price         float64
	ATR           contracts.Optional[float64] // ATR(14)
	Support       contracts.Optional[float64] // lowest low of the last 20 bars
	AnalystTarget contracts.Optional[float64]
}

// Calculate uses the ATR branch when ATR is known and positive, otherwise
// the support/analyst-target fallback
func Calculate(in Inputs) contracts.ActionCard {
	card := contracts.ActionCard{Entry: in.Price}
	analyst, hasAnalyst := in.AnalystTarget.Get()
	analystAbove := hasAnalyst && analyst > in.Price

	if atr, ok := in.ATR.Get(); ok && atr > 0 {
		card.Method = MethodATR
		distance := math.Max(atrStopMultiple*atr, minStopFraction*in.Price)
		card.StopLoss = in.Price - distance

		target := in.Price + atrTargetMultiple*atr
		if analystAbove {
			target = math.Min(target, analyst)
		}
		card.Target = contracts.Some(target)
	} else {
		card.Method = MethodSupport
		card.StopLoss = in.Support.OrElse(fallbackStop * in.Price)
		if analystAbove {
			card.Target = contracts.Some(analyst)
		} else {
			card.Target = contracts.Some(fallbackTarget * in.Price)
		}
	}

	card.RiskReward = RiskReward(in.Price, card.StopLoss, card.Target)
	return card
}

// RiskReward is (target - price) / (price - stop), defined only when a
// target exists and the stop sits below price
func RiskReward(price, stop float64, target contracts.Optional[float64]) contracts.Optional[float64] {
	t, ok := target.Get()
	if !ok || stop >= price {
		return contracts.None[float64]()
	}
	return contracts.Some((t - price) / (price - stop))
}

// Rounded returns the card with every level rounded to cents
func Rounded(card contracts.ActionCard) contracts.ActionCard {
	round := func(v float64) float64 { return math.Round(v*100) / 100 }
	out := card
	out.Entry = round(card.Entry)
	out.StopLoss = round(card.StopLoss)
	if v, ok := card.Target.Get(); ok {
		out.Target = contracts.Some(round(v))
	}
	if v, ok := card.RiskReward.Get(); ok {
		out.RiskReward = contracts.Some(round(v))
	}
	return out
}
