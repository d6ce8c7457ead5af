package scoring

import (
	"math"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/indicators"
	"github.com/wonny/tickergrade/internal/pillars"
)

const (
	volumeSMAPeriod = 20
	shortSMAPeriod  = 50
	longSMAPeriod   = 200
)

// Annotate attaches indicator values to each bar. An indicator field is set
// only from the index where its lookback is satisfied.
func Annotate(bars []contracts.PriceBar) []contracts.AnnotatedBar {
	if len(bars) == 0 {
		return []contracts.AnnotatedBar{}
	}

	closes := contracts.Closes(bars)
	rsi := indicators.RSI(closes, 14)
	macd := indicators.DefaultMACD(closes)
	volSMA := indicators.SMA(contracts.Volumes(bars), volumeSMAPeriod)
	sma50 := indicators.SMA(closes, shortSMAPeriod)
	sma200 := indicators.SMA(closes, longSMAPeriod)

	out := make([]contracts.AnnotatedBar, len(bars))
	for i, b := range bars {
		out[i] = contracts.AnnotatedBar{
			Date:       b.Date.Format("2006-01-02"),
			Price:      pillars.Round(b.Close, 2),
			Open:       pillars.Round(b.Open, 2),
			High:       pillars.Round(b.High, 2),
			Low:        pillars.Round(b.Low, 2),
			Volume:     math.Round(b.Volume),
			RSI:        defined(rsi, i, 2),
			MACD:       defined(macd.Line, i, 4),
			MACDSignal: defined(macd.Signal, i, 4),
			Histogram:  defined(macd.Histogram, i, 4),
			VolumeSMA:  defined(volSMA, i, 0),
			SMA50:      defined(sma50, i, 2),
			SMA200:     defined(sma200, i, 2),
		}
	}
	return out
}

func defined(series []float64, i, places int) *float64 {
	v, ok := indicators.At(series, i)
	if !ok {
		return nil
	}
	r := pillars.Round(v, places)
	return &r
}
