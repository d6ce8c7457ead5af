package contracts

import "time"

// PriceBar is one daily OHLCV candle. Bar sequences are ascending by date.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Quote is a point-in-time price snapshot
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changes_percentage"`
}

// RatingAction is the analyst action label
type RatingAction string

const (
	ActionUpgrade   RatingAction = "upgrade"
	ActionDowngrade RatingAction = "downgrade"
	ActionMaintain  RatingAction = "maintain"
)

// AnalystRating is one broker rating change. Action may be empty, in which
// case the grades decide the direction.
type AnalystRating struct {
	Action        RatingAction `json:"action"`
	PreviousGrade string       `json:"previous_grade"`
	NewGrade      string       `json:"new_grade"`
	Company       string       `json:"company"`
	Date          time.Time    `json:"date"`
}

// NewsItem is a headline, most recent first
type NewsItem struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

// PriceTarget is the analyst price target consensus
type PriceTarget struct {
	Consensus    float64 `json:"target_consensus"`
	Mean         float64 `json:"target_mean"`
	High         float64 `json:"target_high"`
	Low          float64 `json:"target_low"`
	AnalystCount *int    `json:"analyst_count,omitempty"`
}

// Average returns the consensus target, falling back to the mean
func (t PriceTarget) Average() (float64, bool) {
	if t.Consensus > 0 {
		return t.Consensus, true
	}
	if t.Mean > 0 {
		return t.Mean, true
	}
	return 0, false
}

// KeyMetrics holds valuation ratios; nil means the provider had no value
type KeyMetrics struct {
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	PEGRatio      *float64 `json:"peg_ratio,omitempty"`
	PSRatio       *float64 `json:"ps_ratio,omitempty"`
	PBRatio       *float64 `json:"pb_ratio,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	EPSTTM        *float64 `json:"eps_ttm,omitempty"`
}

// EarningsEvent is a scheduled earnings release
type EarningsEvent struct {
	Date time.Time `json:"date"`
}

// MacroPoint is one forward-filled daily observation of the liquidity inputs
type MacroPoint struct {
	Date            time.Time `json:"date"`
	BalanceSheet    float64   `json:"walcl"`
	TreasuryAccount float64   `json:"tga"`
	ReverseRepo     float64   `json:"rrp"`
	NetLiquidity    float64   `json:"net_liquidity"`
	CreditSpread    float64   `json:"credit_spreads"`
}

// NetLiquidityOf computes balance sheet minus treasury account minus reverse repo
func NetLiquidityOf(balanceSheet, treasuryAccount, reverseRepo float64) float64 {
	return balanceSheet - treasuryAccount - reverseRepo
}

// MacroSeries is a daily, gap-free macro series ascending by date
type MacroSeries []MacroPoint

// NetLiquidity returns the net liquidity column
func (s MacroSeries) NetLiquidity() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.NetLiquidity
	}
	return out
}

// CreditSpreads returns the credit spread column
func (s MacroSeries) CreditSpreads() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.CreditSpread
	}
	return out
}

// Closes extracts close prices from bars
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts volumes from bars
func Volumes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// Opens extracts open prices from bars
func Opens(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Open
	}
	return out
}

// Highs extracts high prices from bars
func Highs(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts low prices from bars
func Lows(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}
