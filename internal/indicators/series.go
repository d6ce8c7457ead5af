// Package indicators computes technical indicator series from price data.
//
// Every function returns a slice index-aligned with its input. Entries whose
// lookback window is not yet satisfied hold NaN.
package indicators

import "math"

// Undefined reports whether v is a warm-up placeholder
func Undefined(v float64) bool {
	return math.IsNaN(v)
}

// Last returns the final element of s and whether it is defined
func Last(s []float64) (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	v := s[len(s)-1]
	return v, !math.IsNaN(v)
}

// At returns s[i] and whether it is defined
func At(s []float64, i int) (float64, bool) {
	if i < 0 || i >= len(s) || math.IsNaN(s[i]) {
		return 0, false
	}
	return s[i], true
}

// Tail returns the last n elements of s (all of s when shorter)
func Tail(s []float64, n int) []float64 {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Slope fits y = a + b·x by least squares over x = 0..n-1 and returns b.
// Fewer than two points yield 0.
func Slope(y []float64) float64 {
	n := len(y)
	if n < 2 {
		return 0
	}

	var sumX, sumY float64
	for i, v := range y {
		sumX += float64(i)
		sumY += v
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, den float64
	for i, v := range y {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	return num / den
}
