package pillars

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/logger"
)

type fixedSentiment float64

func (f fixedSentiment) Polarity(string) float64 { return float64(f) }

func upgrades(n int) []contracts.AnalystRating {
	out := make([]contracts.AnalystRating, n)
	for i := range out {
		out[i] = contracts.AnalystRating{Action: contracts.ActionUpgrade}
	}
	return out
}

func TestCatalysts_Ratings(t *testing.T) {
	s := NewCatalysts(logger.Nop(), fixedSentiment(0))

	tests := []struct {
		name    string
		ratings []contracts.AnalystRating
		want    float64
	}{
		{"none", nil, 5.0},
		{"two upgrades", upgrades(2), 6.0},
		{"capped", upgrades(9), 7.5},
		{
			name: "grades decide when action is absent",
			ratings: []contracts.AnalystRating{
				{PreviousGrade: "Hold", NewGrade: "Buy"},
				{PreviousGrade: "Buy", NewGrade: "Strong Sell"},
				{PreviousGrade: "Outperform", NewGrade: "Sell"},
			},
			want: 4.5,
		},
		{
			name: "explicit action wins over grades",
			ratings: []contracts.AnalystRating{
				{Action: "Downgrade", PreviousGrade: "Hold", NewGrade: "Buy"},
			},
			want: 4.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := s.Score("TEST", tt.ratings, nil)
			assert.Equal(t, tt.want, result.Score)
		})
	}
}

func TestCatalysts_Counts(t *testing.T) {
	ratings := []contracts.AnalystRating{
		{Action: contracts.ActionUpgrade},
		{Action: contracts.ActionMaintain, PreviousGrade: "Buy", NewGrade: "Buy"},
		{Action: "init"},
		{PreviousGrade: "Neutral", NewGrade: "Underweight"},
	}

	_, details := NewCatalysts(logger.Nop(), fixedSentiment(0)).Score("TEST", ratings, nil)

	assert.Equal(t, 1, details.Upgrades)
	assert.Equal(t, 1, details.Downgrades)
	assert.Equal(t, 2, details.Maintains)
	assert.Equal(t, 4, details.TotalRatings)
}

func TestCatalysts_Sentiment(t *testing.T) {
	news := make([]contracts.NewsItem, 12)
	for i := range news {
		news[i] = contracts.NewsItem{Title: "headline"}
	}
	news[3].Title = "   "

	result, details := NewCatalysts(logger.Nop(), fixedSentiment(0.4)).Score("TEST", nil, news)

	assert.Equal(t, 9, details.ArticlesAnalyzed)
	assert.Equal(t, 0.4, details.AvgSentiment)
	assert.Equal(t, 6.0, result.Score)
	assert.Equal(t, "Positive Sentiment", details.Signal())
}

func TestCatalysts_Bounded(t *testing.T) {
	news := []contracts.NewsItem{{Title: "x"}}

	high, _ := NewCatalysts(logger.Nop(), fixedSentiment(1)).Score("T", upgrades(10), news)
	assert.Equal(t, 10.0, high.Score)

	downs := []contracts.AnalystRating{{Action: contracts.ActionDowngrade}, {Action: contracts.ActionDowngrade},
		{Action: contracts.ActionDowngrade}, {Action: contracts.ActionDowngrade}, {Action: contracts.ActionDowngrade}}
	low, details := NewCatalysts(logger.Nop(), fixedSentiment(-1)).Score("T", downs, news)
	assert.Equal(t, 0.0, low.Score)
	assert.Equal(t, "Negative Catalysts", details.Signal())
}

func TestCompareGrades(t *testing.T) {
	assert.Equal(t, contracts.ActionUpgrade, CompareGrades("Sell", "Hold"))
	assert.Equal(t, contracts.ActionDowngrade, CompareGrades("Strong Buy", "Buy"))
	assert.Equal(t, contracts.ActionMaintain, CompareGrades("Overweight", "Outperform"))
	assert.Equal(t, contracts.ActionMaintain, CompareGrades("Mystery", "Neutral"))
	assert.Equal(t, 4, GradeRank("unknown grade"))
	assert.Equal(t, 6, GradeRank(" STRONG BUY "))
}

func TestHeadlineAnalyzer(t *testing.T) {
	a := NewHeadlineAnalyzer()

	positive := []string{
		"Apple shares hit all-time high after blowout iPhone sales",
		"Microsoft posts impressive quarter as cloud growth accelerates",
		"Apple beats estimates as shares surge",
	}
	for _, h := range positive {
		assert.Greater(t, a.Polarity(h), 0.0, h)
	}

	negative := []string{
		"Nvidia stock tumbles as export restrictions hit chip sales",
		"Tesla deliveries disappoint, shares sink",
		"Alphabet faces antitrust scrutiny; stock slides",
		"Retailer misses estimates, stock plunges",
	}
	for _, h := range negative {
		assert.Less(t, a.Polarity(h), 0.0, h)
	}

	assert.Equal(t, 0.0, a.Polarity("Company schedules annual meeting"))
	assert.Equal(t, 0.0, a.Polarity(""))

	for _, h := range append(positive, negative...) {
		p := a.Polarity(h)
		assert.True(t, p >= -1 && p <= 1, h)
	}
}

func TestHeadlineAnalyzer_KeepsVaderValences(t *testing.T) {
	a := NewHeadlineAnalyzer()
	// "misses" is already scored by VADER and is not overridden
	assert.Equal(t, -0.9, a.sia.Lexicon["misses"])
	assert.Equal(t, -2.0, a.sia.Lexicon["tumbles"])
}
