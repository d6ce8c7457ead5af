// Package pillars scores the five independent dimensions of a security.
//
// Every scorer starts from a neutral 5.0, applies additive adjustments and
// clamps the result to [0,10] with one decimal. Missing or short inputs never
// fail a scorer; they degrade to the neutral baseline with a flag in the
// details record.
package pillars

import "math"

const (
	// Baseline is the neutral starting score
	Baseline = 5.0

	MinScore = 0.0
	MaxScore = 10.0

	insufficientSignal = "Insufficient Data"
)

// Clamp bounds a raw score to [0,10] and rounds it to one decimal
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return Baseline
	}
	return Round(math.Max(MinScore, math.Min(MaxScore, score)), 1)
}

// Round rounds half away from zero to the given number of decimals
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
