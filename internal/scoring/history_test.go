package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotate_WarmUpBoundaries(t *testing.T) {
	bars := risingBars(60)
	out := Annotate(bars)
	require.Len(t, out, 60)

	tests := []struct {
		name  string
		field func(i int) *float64
		first int
	}{
		{"rsi", func(i int) *float64 { return out[i].RSI }, 13},
		{"macd", func(i int) *float64 { return out[i].MACD }, 25},
		{"macd_signal", func(i int) *float64 { return out[i].MACDSignal }, 33},
		{"histogram", func(i int) *float64 { return out[i].Histogram }, 33},
		{"volume_sma", func(i int) *float64 { return out[i].VolumeSMA }, 19},
		{"sma_50", func(i int) *float64 { return out[i].SMA50 }, 49},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, tt.field(tt.first-1))
			assert.NotNil(t, tt.field(tt.first))
			assert.NotNil(t, tt.field(len(out)-1))
		})
	}

	for i := range out {
		assert.Nil(t, out[i].SMA200, "sma_200 needs 200 bars")
	}
}

func TestAnnotate_Values(t *testing.T) {
	bars := risingBars(60)
	out := Annotate(bars)

	last := out[len(out)-1]
	assert.Equal(t, bars[59].Date.Format("2006-01-02"), last.Date)
	assert.Equal(t, 159.0, last.Price)
	assert.Equal(t, 160.0, last.High)
	assert.Equal(t, 1000.0, *last.VolumeSMA)
	assert.Equal(t, 100.0, *last.RSI)
	assert.Equal(t, 134.5, *last.SMA50)
}

func TestAnnotate_Empty(t *testing.T) {
	out := Annotate(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
