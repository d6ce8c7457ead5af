package indicators

// MACDSeries holds the three aligned MACD series
type MACDSeries struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// Crossover is a sign change of MACD minus signal on the latest bar
type Crossover string

const (
	CrossNone   Crossover = ""
	CrossGolden Crossover = "golden_cross"
	CrossDeath  Crossover = "death_cross"
)

// MACD computes line = EMA(fast) - EMA(slow), signal = EMA(line, signal),
// histogram = line - signal
func MACD(closes []float64, fast, slow, signal int) MACDSeries {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line := undefinedSeries(len(closes))
	for i := range line {
		if !Undefined(emaFast[i]) && !Undefined(emaSlow[i]) {
			line[i] = emaFast[i] - emaSlow[i]
		}
	}

	sig := EMA(line, signal)
	hist := undefinedSeries(len(closes))
	for i := range hist {
		if !Undefined(line[i]) && !Undefined(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}

	return MACDSeries{Line: line, Signal: sig, Histogram: hist}
}

// DefaultMACD is MACD(12, 26, 9)
func DefaultMACD(closes []float64) MACDSeries {
	return MACD(closes, 12, 26, 9)
}

// LatestCrossover compares the last two bars of MACD minus signal.
// Undefined values on either bar yield CrossNone.
func (m MACDSeries) LatestCrossover() Crossover {
	n := len(m.Line)
	if n < 2 || len(m.Signal) < 2 {
		return CrossNone
	}

	today := m.Line[n-1] - m.Signal[n-1]
	yesterday := m.Line[n-2] - m.Signal[n-2]
	if Undefined(today) || Undefined(yesterday) {
		return CrossNone
	}

	switch {
	case today > 0 && yesterday <= 0:
		return CrossGolden
	case today < 0 && yesterday >= 0:
		return CrossDeath
	}
	return CrossNone
}
