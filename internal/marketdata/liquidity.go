package marketdata

import (
	"time"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/pillars"
)

// ChartPoints is how many trailing days the liquidity chart shows
const ChartPoints = 90

// LiquidityPoint is one day of the net liquidity chart. Net liquidity is in
// trillions; the normalised columns start at 100.
type LiquidityPoint struct {
	Date             string   `json:"date"`
	NetLiquidity     float64  `json:"net_liquidity"`
	NetLiquidityNorm float64  `json:"net_liquidity_norm"`
	SPYPrice         *float64 `json:"spy_price,omitempty"`
	SPYNorm          *float64 `json:"spy_norm,omitempty"`
}

// LiquidityChart is the net liquidity series set against the benchmark
type LiquidityChart struct {
	Data                []LiquidityPoint `json:"data"`
	CurrentNetLiquidity float64          `json:"current_net_liquidity"`
	CreditSpread        float64          `json:"credit_spread"`
}

// millions to trillions
const liquidityScale = 1_000_000

// BuildLiquidityChart forward-fills benchmark closes onto the macro dates and
// normalises both series to their first defined point. Only the last
// ChartPoints days are returned. series must be non-empty.
func BuildLiquidityChart(series contracts.MacroSeries, benchmark []contracts.PriceBar) LiquidityChart {
	closes := benchmarkCloses(series, benchmark)

	liqBase := series[0].NetLiquidity
	spyBase := 0.0
	for _, c := range closes {
		if c != nil {
			spyBase = *c
			break
		}
	}

	points := make([]LiquidityPoint, len(series))
	for i, p := range series {
		pt := LiquidityPoint{
			Date:             p.Date.Format("2006-01-02"),
			NetLiquidity:     pillars.Round(p.NetLiquidity/liquidityScale, 2),
			NetLiquidityNorm: 100,
		}
		if liqBase != 0 {
			pt.NetLiquidityNorm = pillars.Round(p.NetLiquidity/liqBase*100, 2)
		}
		if c := closes[i]; c != nil {
			price := pillars.Round(*c, 2)
			pt.SPYPrice = &price
			if spyBase != 0 {
				norm := pillars.Round(*c/spyBase*100, 2)
				pt.SPYNorm = &norm
			}
		}
		points[i] = pt
	}

	last := series[len(series)-1]
	if len(points) > ChartPoints {
		points = points[len(points)-ChartPoints:]
	}

	return LiquidityChart{
		Data:                points,
		CurrentNetLiquidity: pillars.Round(last.NetLiquidity/liquidityScale, 2),
		CreditSpread:        pillars.Round(last.CreditSpread, 2),
	}
}

// benchmarkCloses returns, per macro date, the latest benchmark close on or
// before that day. Days before the first benchmark bar are nil.
func benchmarkCloses(series contracts.MacroSeries, bars []contracts.PriceBar) []*float64 {
	out := make([]*float64, len(series))
	j := 0
	var current *float64
	for i, p := range series {
		day := truncateDay(p.Date)
		for j < len(bars) && !truncateDay(bars[j].Date).After(day) {
			c := bars[j].Close
			current = &c
			j++
		}
		out[i] = current
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
