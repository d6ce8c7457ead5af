package contracts

import "time"

// Pillar identifies one of the five scoring dimensions
type Pillar string

const (
	PillarTechnicals Pillar = "technicals"
	PillarCatalysts  Pillar = "catalysts"
	PillarMacro      Pillar = "macro"
	PillarValue      Pillar = "value"
	PillarEventRisk  Pillar = "event_risk"
)

// Pillars lists every pillar in display order
var Pillars = []Pillar{PillarCatalysts, PillarTechnicals, PillarValue, PillarMacro, PillarEventRisk}

// Weight returns the fixed composite weight of the pillar.
// Weights: Technicals(35%), Catalysts(20%), Macro(20%), Value(15%), EventRisk(10%)
func (p Pillar) Weight() float64 {
	switch p {
	case PillarTechnicals:
		return 0.35
	case PillarCatalysts:
		return 0.20
	case PillarMacro:
		return 0.20
	case PillarValue:
		return 0.15
	case PillarEventRisk:
		return 0.10
	}
	return 0
}

// DisplayName returns the human-readable pillar name
func (p Pillar) DisplayName() string {
	switch p {
	case PillarTechnicals:
		return "Technical Structure"
	case PillarCatalysts:
		return "Catalysts & Sentiment"
	case PillarMacro:
		return "Macro Liquidity"
	case PillarValue:
		return "Relative Value"
	case PillarEventRisk:
		return "Event Risk"
	}
	return string(p)
}

// Explainer is implemented by every pillar's detail record
type Explainer interface {
	// Signal is the short label that explains the score, e.g. "Earnings Blackout"
	Signal() string
}

// PillarResult is one pillar's bounded score and its explanation
type PillarResult struct {
	Pillar  Pillar    `json:"pillar"`
	Name    string    `json:"name"`
	Score   float64   `json:"score"` // 0.0 ~ 10.0, one decimal
	Weight  float64   `json:"weight"`
	Details Explainer `json:"details"`
}

// NewPillarResult fills name and weight from the pillar
func NewPillarResult(p Pillar, score float64, details Explainer) PillarResult {
	return PillarResult{
		Pillar:  p,
		Name:    p.DisplayName(),
		Score:   score,
		Weight:  p.Weight(),
		Details: details,
	}
}

// Severity is the display class of a verdict
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// CompositeResult is the weighted final score and its verdict
type CompositeResult struct {
	FinalScore float64  `json:"final_score"`
	Verdict    string   `json:"verdict"`
	Severity   Severity `json:"verdict_type"`
	Blackout   bool     `json:"blackout"`
}

// ActionCard holds trade levels derived from the technical and value pillars
type ActionCard struct {
	Entry      float64           `json:"entry_zone"`
	StopLoss   float64           `json:"stop_loss"`
	Target     Optional[float64] `json:"target"`
	RiskReward Optional[float64] `json:"risk_reward"`
	Method     string            `json:"method"` // "atr" or "support"
}

// AnnotatedBar is a price bar with the indicator values defined at its index
type AnnotatedBar struct {
	Date       string   `json:"date"`
	Price      float64  `json:"price"`
	Open       float64  `json:"open"`
	High       float64  `json:"high"`
	Low        float64  `json:"low"`
	Volume     float64  `json:"volume"`
	RSI        *float64 `json:"rsi,omitempty"`
	MACD       *float64 `json:"macd,omitempty"`
	MACDSignal *float64 `json:"macd_signal,omitempty"`
	Histogram  *float64 `json:"histogram,omitempty"`
	VolumeSMA  *float64 `json:"volume_sma,omitempty"`
	SMA50      *float64 `json:"sma_50,omitempty"`
	SMA200     *float64 `json:"sma_200,omitempty"`
}

// Scorecard is the full output of one scoring run
type Scorecard struct {
	Ticker       string                  `json:"ticker"`
	CompanyName  string                  `json:"company_name"`
	CurrentPrice float64                 `json:"current_price"`
	Composite    CompositeResult         `json:"composite"`
	ActionCard   ActionCard              `json:"action_card"`
	Pillars      map[Pillar]PillarResult `json:"pillars"`
	PriceHistory []AnnotatedBar          `json:"price_history"`
	ScoredAt     time.Time               `json:"scored_at"`
}

// Pillar returns the result for p
func (s *Scorecard) Pillar(p Pillar) (PillarResult, bool) {
	r, ok := s.Pillars[p]
	return r, ok
}
