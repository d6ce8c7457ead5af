package divergence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// twoValleys builds 30 bars with price lows at 8 (90) and 22 (83) and RSI
// lows at the same bars rising from 20 to 30
func twoValleys() (prices, rsi []float64) {
	prices = make([]float64, 30)
	rsi = make([]float64, 30)
	for i := range prices {
		switch {
		case i <= 8:
			prices[i] = 98 - float64(i)
		case i <= 15:
			prices[i] = 90 + 2*float64(i-8)
		case i <= 22:
			prices[i] = 104 - 3*float64(i-15)
		default:
			prices[i] = 83 + 2*float64(i-22)
		}

		switch {
		case i <= 15:
			rsi[i] = 20 + 2*math.Abs(float64(i-8))
		case i <= 22:
			rsi[i] = 34 - 4.0/7.0*float64(i-15)
		default:
			rsi[i] = 30 + 2*float64(i-22)
		}
	}
	return prices, rsi
}

func mirror(s []float64, around float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = around - v
	}
	return out
}

func TestDetect(t *testing.T) {
	prices, rsi := twoValleys()

	t.Run("bullish", func(t *testing.T) {
		got := New().Detect(prices, rsi)
		assert.Equal(t, Bullish, got.Kind)
		assert.True(t, got.Found())
		assert.Equal(t, "Lower Low", got.PricePattern)
		assert.Equal(t, "Higher Low", got.RSIPattern)
	})

	t.Run("bearish", func(t *testing.T) {
		got := New().Detect(mirror(prices, 200), mirror(rsi, 100))
		assert.Equal(t, Bearish, got.Kind)
		assert.Equal(t, "Higher High", got.PricePattern)
		assert.Equal(t, "Lower High", got.RSIPattern)
	})

	t.Run("only the trailing window is used", func(t *testing.T) {
		lead := []float64{1, 500, 1, 500, 1}
		got := New().Detect(append(lead, prices...), append(lead, rsi...))
		assert.Equal(t, Bullish, got.Kind)
	})

	t.Run("confirming rsi is not a divergence", func(t *testing.T) {
		got := New().Detect(prices, prices)
		assert.Equal(t, None, got.Kind)
	})

	t.Run("monotonic series", func(t *testing.T) {
		up := make([]float64, 40)
		for i := range up {
			up[i] = float64(i)
		}
		assert.Equal(t, None, New().Detect(up, up).Kind)
	})

	t.Run("too few bars", func(t *testing.T) {
		got := New().Detect(prices[:29], rsi[:29])
		assert.Equal(t, None, got.Kind)
		assert.False(t, got.Found())
	})

	t.Run("window shorter than two orders", func(t *testing.T) {
		d := &Detector{Lookback: 8, Order: 5}
		assert.Equal(t, None, d.Detect(prices, rsi).Kind)
	})

	t.Run("undefined rsi values never form extrema", func(t *testing.T) {
		nan := make([]float64, 30)
		for i := range nan {
			nan[i] = math.NaN()
		}
		assert.Equal(t, None, New().Detect(prices, nan).Kind)
	})
}

func TestExtremaClipsAtEdges(t *testing.T) {
	s := []float64{1, 2, 3, 2, 1}
	assert.Equal(t, []int{0, 4}, extrema(s, 2, lessEqual))
	assert.Equal(t, []int{2}, extrema(s, 2, greaterEqual))
}
