package indicators

// SMA computes the simple trailing average over period values
func SMA(data []float64, period int) []float64 {
	out := undefinedSeries(len(data))
	if period <= 0 || len(data) < period {
		return out
	}

	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes the exponential moving average with α = 2/(period+1).
// The recursion seeds from the first defined input and the output becomes
// defined once period defined inputs have been seen. Undefined inputs after
// the seed carry the previous average forward.
func EMA(data []float64, period int) []float64 {
	return smooth(data, 2.0/(float64(period)+1.0), period)
}

// smooth is the recursive average y[t] = (1-α)·y[t-1] + α·x[t]
func smooth(data []float64, alpha float64, minPeriods int) []float64 {
	out := undefinedSeries(len(data))
	if minPeriods <= 0 {
		minPeriods = 1
	}

	var avg float64
	seen := 0
	for i, v := range data {
		if Undefined(v) {
			if seen >= minPeriods {
				out[i] = avg
			}
			continue
		}
		if seen == 0 {
			avg = v
		} else {
			avg = (1-alpha)*avg + alpha*v
		}
		seen++
		if seen >= minPeriods {
			out[i] = avg
		}
	}
	return out
}
