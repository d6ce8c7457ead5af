package indicators

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4}, 2)

	require.Len(t, got, 4)
	assert.True(t, Undefined(got[0]))
	assert.InDelta(t, 1.5, got[1], 1e-9)
	assert.InDelta(t, 2.5, got[2], 1e-9)
	assert.InDelta(t, 3.5, got[3], 1e-9)

	short := SMA([]float64{1, 2}, 5)
	assert.True(t, Undefined(short[0]))
	assert.True(t, Undefined(short[1]))
}

func TestEMA(t *testing.T) {
	t.Run("warm-up", func(t *testing.T) {
		got := EMA([]float64{1, 2, 3}, 3)
		assert.True(t, Undefined(got[0]))
		assert.True(t, Undefined(got[1]))
		assert.InDelta(t, 2.25, got[2], 1e-9)
	})

	t.Run("seeds from first defined value", func(t *testing.T) {
		nan := math.NaN()
		got := EMA([]float64{nan, nan, 2, 4, 6}, 3)
		assert.True(t, Undefined(got[3]))
		assert.InDelta(t, 4.5, got[4], 1e-9)
	})
}

func TestRSI(t *testing.T) {
	t.Run("known values", func(t *testing.T) {
		got := RSI([]float64{1, 2, 1}, 2)
		assert.True(t, Undefined(got[0]))
		assert.InDelta(t, 100, got[1], 1e-9)
		assert.InDelta(t, 33.3333, got[2], 1e-3)
	})

	t.Run("defined from warm-up index", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 + float64(i%3)
		}
		got := RSI(closes, 14)
		assert.True(t, Undefined(got[12]))
		assert.False(t, Undefined(got[13]))
	})

	t.Run("bounded", func(t *testing.T) {
		r := rand.New(rand.NewSource(42))
		closes := make([]float64, 500)
		price := 100.0
		for i := range closes {
			price *= 1 + (r.Float64()-0.5)*0.06
			closes[i] = price
		}
		for _, v := range RSI(closes, 14) {
			if Undefined(v) {
				continue
			}
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	})

	t.Run("no losses saturates at 100", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		v, ok := Last(RSI(closes, 14))
		require.True(t, ok)
		assert.Equal(t, 100.0, v)
	})

	t.Run("flat series is neutral", func(t *testing.T) {
		v, ok := Last(RSI(constant(40, 100), 14))
		require.True(t, ok)
		assert.Equal(t, 50.0, v)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, RSI(nil, 14))
	})
}

func TestMACD(t *testing.T) {
	t.Run("flat series is zero once defined", func(t *testing.T) {
		m := DefaultMACD(constant(60, 50))

		assert.True(t, Undefined(m.Line[24]))
		assert.InDelta(t, 0, m.Line[25], 1e-9)
		assert.True(t, Undefined(m.Signal[32]))
		assert.InDelta(t, 0, m.Signal[33], 1e-9)
		assert.InDelta(t, 0, m.Histogram[59], 1e-9)
		assert.Equal(t, CrossNone, m.LatestCrossover())
	})

	t.Run("rising series has line above signal", func(t *testing.T) {
		closes := make([]float64, 70)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		m := DefaultMACD(closes)
		line, ok := Last(m.Line)
		require.True(t, ok)
		sig, ok := Last(m.Signal)
		require.True(t, ok)
		assert.Greater(t, line, 0.0)
		assert.Greater(t, line, sig)
	})
}

func TestLatestCrossover(t *testing.T) {
	tests := []struct {
		name   string
		line   []float64
		signal []float64
		want   Crossover
	}{
		{"golden", []float64{0, 1}, []float64{0.5, 0.5}, CrossGolden},
		{"golden from touch", []float64{0.5, 1}, []float64{0.5, 0.5}, CrossGolden},
		{"death", []float64{1, 0}, []float64{0.5, 0.5}, CrossDeath},
		{"still above", []float64{1, 2}, []float64{0.5, 0.5}, CrossNone},
		{"undefined", []float64{math.NaN(), 1}, []float64{0.5, 0.5}, CrossNone},
		{"too short", []float64{1}, []float64{0}, CrossNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MACDSeries{Line: tt.line, Signal: tt.signal}
			assert.Equal(t, tt.want, m.LatestCrossover())
		})
	}
}

func TestATR(t *testing.T) {
	n := 20
	got := ATR(constant(n, 11), constant(n, 9), constant(n, 10), 14)

	assert.True(t, Undefined(got[12]))
	assert.InDelta(t, 2, got[13], 1e-9)
	assert.InDelta(t, 2, got[n-1], 1e-9)

	short := ATR(constant(5, 11), constant(5, 9), constant(5, 10), 14)
	_, ok := Last(short)
	assert.False(t, ok)
}

func TestSlope(t *testing.T) {
	y := make([]float64, 20)
	for i := range y {
		y[i] = 3 + 2*float64(i)
	}
	assert.InDelta(t, 2, Slope(y), 1e-9)
	assert.InDelta(t, 0, Slope(constant(20, 4)), 1e-9)
	assert.Equal(t, 0.0, Slope([]float64{1}))
}

func TestConfirmVolume(t *testing.T) {
	volumes := append(constant(20, 100), 200)
	opens := constant(21, 10)

	v, ok := ConfirmVolume(opens, constant(21, 11), volumes, 20)
	require.True(t, ok)
	assert.True(t, v.StrongBuying())
	assert.False(t, v.HeavySelling())

	v, ok = ConfirmVolume(opens, constant(21, 9), volumes, 20)
	require.True(t, ok)
	assert.True(t, v.HeavySelling())

	v, ok = ConfirmVolume(constant(3, 10), constant(3, 11), []float64{1, 2, 3}, 20)
	require.True(t, ok)
	assert.False(t, v.AboveAverage())

	_, ok = ConfirmVolume(nil, nil, nil, 20)
	assert.False(t, ok)
}

func TestTail(t *testing.T) {
	s := []float64{1, 2, 3}
	assert.Equal(t, []float64{2, 3}, Tail(s, 2))
	assert.Equal(t, s, Tail(s, 10))
}
