package pillars

import (
	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/divergence"
	"github.com/wonny/tickergrade/internal/indicators"
	"github.com/wonny/tickergrade/pkg/logger"
)

const (
	// MinTechnicalBars is the shortest history the technicals pillar scores
	MinTechnicalBars = 60

	rsiPeriod     = 14
	atrPeriod     = 14
	volumeWindow  = 20
	supportWindow = 20
)

// TechnicalsDetails explains a technicals score
type TechnicalsDetails struct {
	Error string `json:"error,omitempty"`

	CurrentPrice float64 `json:"current_price"`

	RSI                float64 `json:"rsi"`
	RSISignal          string  `json:"rsi_signal"`
	DivergenceDetected bool    `json:"divergence_detected"`
	DivergenceType     string  `json:"divergence_type,omitempty"`
	PricePattern       string  `json:"price_pattern,omitempty"`
	RSIPattern         string  `json:"rsi_pattern,omitempty"`

	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDBullish   bool    `json:"macd_bullish"`
	MACDCrossover string  `json:"macd_crossover"`

	CurrentVolume float64                     `json:"current_volume"`
	SMAVolume20   contracts.Optional[float64] `json:"sma_volume_20"`
	IsGreenDay    bool                        `json:"is_green_day"`
	VolumeBullish bool                        `json:"volume_bullish"`
	VolumeSignal  string                      `json:"volume_signal"`

	// StopLossSupport is the lowest low of the trailing 20 bars
	StopLossSupport contracts.Optional[float64] `json:"stop_loss_support"`
	ATR14           contracts.Optional[float64] `json:"atr_14"`
}

// Signal implements contracts.Explainer
func (d TechnicalsDetails) Signal() string {
	if d.Error != "" {
		return insufficientSignal
	}
	return d.RSISignal
}

// Technicals scores momentum, trend and volume from daily bars
// ⭐ SSOT: technical pillar scoring lives here only
type Technicals struct {
	logger   *logger.Logger
	detector *divergence.Detector
}

// NewTechnicals creates a technicals scorer
func NewTechnicals(log *logger.Logger) *Technicals {
	return &Technicals{
		logger:   log,
		detector: divergence.New(),
	}
}

// Score scores ascending daily bars
func (s *Technicals) Score(ticker string, bars []contracts.PriceBar) (contracts.PillarResult, TechnicalsDetails) {
	if len(bars) < MinTechnicalBars {
		details := TechnicalsDetails{Error: "Insufficient data (need 60+ days)"}
		return contracts.NewPillarResult(contracts.PillarTechnicals, Baseline, details), details
	}

	closes := contracts.Closes(bars)
	score := Baseline
	details := TechnicalsDetails{}

	current := closes[len(closes)-1]
	details.CurrentPrice = Round(current, 2)

	// RSI zone, unless a divergence overrides it
	rsiSeries := indicators.RSI(closes, rsiPeriod)
	rsi, ok := indicators.Last(rsiSeries)
	if !ok {
		rsi = 50
	}
	details.RSI = Round(rsi, 2)

	div := s.detector.Detect(closes, rsiSeries)
	switch div.Kind {
	case divergence.Bullish:
		score += 3.0
		details.RSISignal = "Bullish Divergence"
	case divergence.Bearish:
		score -= 3.0
		details.RSISignal = "Bearish Divergence"
	default:
		delta, label := rsiZone(rsi)
		score += delta
		details.RSISignal = label
	}
	if div.Found() {
		details.DivergenceDetected = true
		details.DivergenceType = div.Type
		details.PricePattern = div.PricePattern
		details.RSIPattern = div.RSIPattern
	}

	// MACD
	macd := indicators.DefaultMACD(closes)
	line, _ := indicators.Last(macd.Line)
	signal, _ := indicators.Last(macd.Signal)
	details.MACD = Round(line, 4)
	details.MACDSignal = Round(signal, 4)

	switch macd.LatestCrossover() {
	case indicators.CrossGolden:
		score += 2.5
		details.MACDBullish = true
		details.MACDCrossover = "Golden Cross"
	case indicators.CrossDeath:
		score -= 2.0
		details.MACDCrossover = "Death Cross"
	default:
		if line > signal {
			score += 1.5
			details.MACDBullish = true
			details.MACDCrossover = "Above Signal"
		} else {
			score -= 1.0
			details.MACDCrossover = "Below Signal"
		}
	}

	// Volume confirmation
	vol, ok := indicators.ConfirmVolume(contracts.Opens(bars), closes, contracts.Volumes(bars), volumeWindow)
	if ok {
		details.CurrentVolume = vol.Current
		if !indicators.Undefined(vol.Average) {
			details.SMAVolume20 = contracts.Some(Round(vol.Average, 0))
		}
		details.IsGreenDay = vol.Green

		switch {
		case vol.StrongBuying():
			score += 1.5
			details.VolumeBullish = true
			details.VolumeSignal = "Strong Buying"
		case vol.HeavySelling():
			score -= 0.5
			details.VolumeSignal = "Heavy Selling"
		default:
			details.VolumeSignal = "Low Volume"
		}
	}

	// Levels for the action card
	details.StopLossSupport = contracts.Some(Round(lowestLow(bars, supportWindow), 2))
	atr := indicators.ATR(contracts.Highs(bars), contracts.Lows(bars), closes, atrPeriod)
	if v, ok := indicators.Last(atr); ok {
		details.ATR14 = contracts.Some(v)
	}

	final := Clamp(score)

	s.logger.WithTicker(ticker).WithFields(map[string]interface{}{
		"rsi":        details.RSI,
		"rsi_signal": details.RSISignal,
		"macd":       details.MACDCrossover,
		"volume":     details.VolumeSignal,
		"score":      final,
	}).Debug("Scored technicals")

	return contracts.NewPillarResult(contracts.PillarTechnicals, final, details), details
}

// rsiZone maps an RSI reading outside any divergence to its adjustment
func rsiZone(rsi float64) (float64, string) {
	switch {
	case rsi >= 40 && rsi <= 50:
		return 1.5, "Neutral-Bullish"
	case rsi > 75:
		return -1.5, "Overextended"
	case rsi < 30:
		return 1.0, "Oversold"
	case rsi > 50 && rsi <= 75:
		return 1.0, "Momentum"
	}
	return 0, "Neutral"
}

func lowestLow(bars []contracts.PriceBar, window int) float64 {
	start := len(bars) - window
	if start < 0 {
		start = 0
	}
	low := bars[start].Low
	for _, b := range bars[start+1:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}
