package indicators

import "math"

// ATR computes the Average True Range with Wilder smoothing.
// The first true range is high - low; the first ATR is the mean of the first
// period true ranges and sits at index period-1.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := undefinedSeries(n)
	if period <= 0 || n < period+1 || len(highs) != n || len(lows) != n {
		return out
	}

	trs := make([]float64, n)
	trs[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		trs[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += trs[i]
	}
	out[period-1] = sum / float64(period)

	for i := period; i < n; i++ {
		out[i] = (out[i-1]*float64(period-1) + trs[i]) / float64(period)
	}
	return out
}
