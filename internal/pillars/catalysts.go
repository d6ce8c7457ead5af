package pillars

import (
	"math"
	"strings"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/logger"
)

const (
	maxHeadlines     = 10
	ratingStep       = 0.5
	maxRatingImpact  = 2.5
	sentimentScaling = 2.5
)

// CatalystsDetails explains a catalysts score
type CatalystsDetails struct {
	Upgrades         int     `json:"upgrades"`
	Downgrades       int     `json:"downgrades"`
	Maintains        int     `json:"maintains"`
	TotalRatings     int     `json:"total_ratings"`
	AvgSentiment     float64 `json:"avg_sentiment"`
	ArticlesAnalyzed int     `json:"articles_analyzed"`
}

// Signal implements contracts.Explainer
func (d CatalystsDetails) Signal() string {
	switch net := d.Upgrades - d.Downgrades; {
	case net > 0 && d.AvgSentiment >= 0:
		return "Positive Catalysts"
	case net < 0 && d.AvgSentiment <= 0:
		return "Negative Catalysts"
	case net == 0 && d.AvgSentiment > 0:
		return "Positive Sentiment"
	case net == 0 && d.AvgSentiment < 0:
		return "Negative Sentiment"
	}
	return "Mixed"
}

// Catalysts scores analyst rating momentum and headline sentiment
type Catalysts struct {
	logger   *logger.Logger
	analyzer SentimentAnalyzer
}

// NewCatalysts creates a catalysts scorer. A nil analyzer selects
// NewHeadlineAnalyzer.
func NewCatalysts(log *logger.Logger, analyzer SentimentAnalyzer) *Catalysts {
	if analyzer == nil {
		analyzer = NewHeadlineAnalyzer()
	}
	return &Catalysts{
		logger:   log,
		analyzer: analyzer,
	}
}

// Score scores rating changes and the most recent headlines (newest first)
func (s *Catalysts) Score(ticker string, ratings []contracts.AnalystRating, news []contracts.NewsItem) (contracts.PillarResult, CatalystsDetails) {
	score := Baseline
	details := CatalystsDetails{TotalRatings: len(ratings)}

	for _, r := range ratings {
		switch classify(r) {
		case contracts.ActionUpgrade:
			details.Upgrades++
		case contracts.ActionDowngrade:
			details.Downgrades++
		default:
			details.Maintains++
		}
	}

	if net := details.Upgrades - details.Downgrades; net != 0 {
		impact := math.Min(math.Abs(float64(net))*ratingStep, maxRatingImpact)
		if net < 0 {
			impact = -impact
		}
		score += impact
	}

	if len(news) > maxHeadlines {
		news = news[:maxHeadlines]
	}
	var sum float64
	for _, item := range news {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		sum += s.analyzer.Polarity(item.Title)
		details.ArticlesAnalyzed++
	}
	if details.ArticlesAnalyzed > 0 {
		avg := sum / float64(details.ArticlesAnalyzed)
		details.AvgSentiment = Round(avg, 3)
		score += avg * sentimentScaling
	}

	final := Clamp(score)

	s.logger.WithTicker(ticker).WithFields(map[string]interface{}{
		"upgrades":   details.Upgrades,
		"downgrades": details.Downgrades,
		"sentiment":  details.AvgSentiment,
		"articles":   details.ArticlesAnalyzed,
		"score":      final,
	}).Debug("Scored catalysts")

	return contracts.NewPillarResult(contracts.PillarCatalysts, final, details), details
}
