package pillars

import (
	"github.com/jonreiter/govader"
)

// SentimentAnalyzer scores text polarity in [-1, 1]
type SentimentAnalyzer interface {
	Polarity(text string) float64
}

// marketLexicon adds headline verbs the general VADER lexicon lacks.
// Valences use the VADER scale [-4, 4].
var marketLexicon = map[string]float64{
	"surge": 2.0, "surges": 2.0, "soar": 2.2, "soars": 2.2, "rally": 1.8, "rallies": 1.8,
	"jump": 1.5, "jumps": 1.5, "rises": 1.0, "climbs": 1.2, "beat": 1.5, "beats": 1.5,
	"blowout": 2.0, "record": 1.0, "upgrade": 1.5, "upgrades": 1.5, "upgraded": 1.5,
	"outperform": 1.5, "bullish": 2.0, "upbeat": 1.8, "breakthrough": 2.0,
	"plunge": -2.5, "plunges": -2.5, "tumble": -2.0, "tumbles": -2.0, "sink": -2.0,
	"sinks": -2.0, "slide": -1.5, "slides": -1.5, "slump": -2.0, "slumps": -2.0,
	"falls": -1.2, "drops": -1.2, "declines": -1.2, "downgrade": -1.5, "downgrades": -1.5,
	"downgraded": -1.5, "underperform": -1.5, "bearish": -2.0, "bankruptcy": -3.0,
	"layoffs": -1.8, "recall": -1.2, "scrutiny": -1.0,
}

// HeadlineAnalyzer scores headlines with VADER's compound score
type HeadlineAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewHeadlineAnalyzer loads the VADER lexicon and adds marketLexicon words
// it does not already score
func NewHeadlineAnalyzer() *HeadlineAnalyzer {
	sia := govader.NewSentimentIntensityAnalyzer()
	for word, valence := range marketLexicon {
		if _, ok := sia.Lexicon[word]; !ok {
			sia.Lexicon[word] = valence
		}
	}
	return &HeadlineAnalyzer{sia: sia}
}

// Polarity implements SentimentAnalyzer
func (a *HeadlineAnalyzer) Polarity(text string) float64 {
	return a.sia.PolarityScores(text).Compound
}
