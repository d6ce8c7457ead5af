package indicators

// RSI computes the Relative Strength Index with Wilder smoothing (α = 1/period).
//
// The first close contributes a zero gain and loss, so the first defined
// value sits at index period-1. When the average loss is zero the index
// saturates at 100; a perfectly flat window (no gains and no losses) is
// reported as the neutral 50.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	if n == 0 || period <= 0 {
		return undefinedSeries(n)
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else if change < 0 {
			losses[i] = -change
		}
	}

	alpha := 1.0 / float64(period)
	avgGain := smooth(gains, alpha, period)
	avgLoss := smooth(losses, alpha, period)

	out := undefinedSeries(n)
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		if Undefined(g) || Undefined(l) {
			continue
		}
		switch {
		case l == 0 && g == 0:
			out[i] = 50
		case l == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+g/l)
		}
	}
	return out
}
