// Package finnhub reads analyst, fundamentals, news and earnings data from
// the Finnhub REST API.
package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/httputil"
	"github.com/wonny/tickergrade/pkg/logger"
)

const (
	ratingsLookbackDays = 180
	maxRatings          = 30
	newsLookbackDays    = 30
	maxNews             = 20
	earningsHorizonDays = 90
	dateLayout          = "2006-01-02"
	defaultBaseURL      = "https://finnhub.io/api/v1"
)

// Client handles communication with Finnhub
// ⭐ SSOT: Finnhub API calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	clock      clock.Clock
	baseURL    string
}

// NewClient creates a Finnhub client. The API key is sent as a header.
func NewClient(httpClient *httputil.Client, log *logger.Logger, clk clock.Clock, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if apiKey != "" {
		httpClient.WithHeader("X-Finnhub-Token", apiKey)
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "finnhub"),
		clock:      clk,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	if err := c.httpClient.GetJSON(ctx, fullURL, dest); err != nil {
		return fmt.Errorf("finnhub %s: %w", path, err)
	}
	return nil
}

// unavailable logs a failed fetch; callers then report ok=false
func (c *Client) unavailable(err error, ticker, what string) {
	c.logger.WithTicker(ticker).WithError(err).Warnf("Failed to fetch %s", what)
}

type profileResponse struct {
	Name string `json:"name"`
}

// CompanyName returns the registered company name
func (c *Client) CompanyName(ctx context.Context, ticker string) (string, bool) {
	var resp profileResponse
	if err := c.get(ctx, "/stock/profile2", url.Values{"symbol": {ticker}}, &resp); err != nil {
		c.unavailable(err, ticker, "company profile")
		return "", false
	}
	if resp.Name == "" {
		return "", false
	}
	return resp.Name, true
}

type ratingResponse struct {
	Symbol    string `json:"symbol"`
	GradeTime int64  `json:"gradeTime"`
	FromGrade string `json:"fromGrade"`
	ToGrade   string `json:"toGrade"`
	Company   string `json:"company"`
	Action    string `json:"action"`
}

// Ratings returns up to 30 rating changes from the last 180 days, newest first
func (c *Client) Ratings(ctx context.Context, ticker string) ([]contracts.AnalystRating, bool) {
	now := c.clock.Now()
	params := url.Values{
		"symbol": {ticker},
		"from":   {now.AddDate(0, 0, -ratingsLookbackDays).Format(dateLayout)},
		"to":     {now.Format(dateLayout)},
	}

	var resp []ratingResponse
	if err := c.get(ctx, "/stock/upgrade-downgrade", params, &resp); err != nil {
		c.unavailable(err, ticker, "rating changes")
		return nil, false
	}

	if len(resp) > maxRatings {
		resp = resp[:maxRatings]
	}
	ratings := make([]contracts.AnalystRating, 0, len(resp))
	for _, r := range resp {
		ratings = append(ratings, contracts.AnalystRating{
			Action:        normalizeAction(r.Action),
			PreviousGrade: r.FromGrade,
			NewGrade:      r.ToGrade,
			Company:       r.Company,
			Date:          time.Unix(r.GradeTime, 0).UTC(),
		})
	}
	return ratings, true
}

// normalizeAction maps Finnhub's up/down/main/init/reit codes
func normalizeAction(action string) contracts.RatingAction {
	switch strings.ToLower(action) {
	case "up", "upgrade":
		return contracts.ActionUpgrade
	case "down", "downgrade":
		return contracts.ActionDowngrade
	case "main", "maintain", "reit":
		return contracts.ActionMaintain
	}
	return ""
}

type priceTargetResponse struct {
	TargetHigh   float64 `json:"targetHigh"`
	TargetLow    float64 `json:"targetLow"`
	TargetMean   float64 `json:"targetMean"`
	TargetMedian float64 `json:"targetMedian"`
}

// PriceTarget returns the analyst target consensus (mean, else median)
func (c *Client) PriceTarget(ctx context.Context, ticker string) (contracts.PriceTarget, bool) {
	var resp priceTargetResponse
	if err := c.get(ctx, "/stock/price-target", url.Values{"symbol": {ticker}}, &resp); err != nil {
		c.unavailable(err, ticker, "price target")
		return contracts.PriceTarget{}, false
	}

	consensus := resp.TargetMean
	if consensus == 0 {
		consensus = resp.TargetMedian
	}
	target := contracts.PriceTarget{
		Consensus: consensus,
		Mean:      resp.TargetMean,
		High:      resp.TargetHigh,
		Low:       resp.TargetLow,
	}
	if _, ok := target.Average(); !ok {
		return contracts.PriceTarget{}, false
	}
	return target, true
}

type metricResponse struct {
	Metric map[string]interface{} `json:"metric"`
}

// Metrics returns trailing valuation ratios
func (c *Client) Metrics(ctx context.Context, ticker string) (contracts.KeyMetrics, bool) {
	var resp metricResponse
	params := url.Values{"symbol": {ticker}, "metric": {"all"}}
	if err := c.get(ctx, "/stock/metric", params, &resp); err != nil {
		c.unavailable(err, ticker, "basic financials")
		return contracts.KeyMetrics{}, false
	}
	if resp.Metric == nil {
		return contracts.KeyMetrics{}, false
	}

	m := resp.Metric
	return contracts.KeyMetrics{
		PERatio:       firstNumber(m, "peBasicExclExtraTTM", "peTTM"),
		PEGRatio:      firstNumber(m, "pegTTM"),
		PSRatio:       firstNumber(m, "psTTM"),
		PBRatio:       firstNumber(m, "pbQuarterly", "pbAnnual"),
		DividendYield: firstNumber(m, "dividendYieldIndicatedAnnual"),
		Beta:          firstNumber(m, "beta"),
		EPSTTM:        firstNumber(m, "epsBasicExclExtraItemsTTM"),
	}, true
}

// firstNumber returns the first non-zero numeric value among keys
func firstNumber(m map[string]interface{}, keys ...string) *float64 {
	for _, k := range keys {
		if v, ok := m[k].(float64); ok && v != 0 {
			return &v
		}
	}
	return nil
}

type newsResponse struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
}

// News returns up to 20 headlines from the last 30 days, newest first
func (c *Client) News(ctx context.Context, ticker string) ([]contracts.NewsItem, bool) {
	now := c.clock.Now()
	params := url.Values{
		"symbol": {ticker},
		"from":   {now.AddDate(0, 0, -newsLookbackDays).Format(dateLayout)},
		"to":     {now.Format(dateLayout)},
	}

	var resp []newsResponse
	if err := c.get(ctx, "/company-news", params, &resp); err != nil {
		c.unavailable(err, ticker, "company news")
		return nil, false
	}

	sort.SliceStable(resp, func(i, j int) bool { return resp[i].Datetime > resp[j].Datetime })
	if len(resp) > maxNews {
		resp = resp[:maxNews]
	}

	items := make([]contracts.NewsItem, 0, len(resp))
	for _, n := range resp {
		items = append(items, contracts.NewsItem{
			Title:  PlainText(n.Headline),
			Source: n.Source,
		})
	}
	return items, true
}

// PlainText strips markup and entities from a headline and collapses whitespace
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

type earningsResponse struct {
	EarningsCalendar []struct {
		Date   string `json:"date"`
		Symbol string `json:"symbol"`
	} `json:"earningsCalendar"`
}

// Earnings returns the nearest scheduled release within 90 days, if any
func (c *Client) Earnings(ctx context.Context, ticker string) ([]contracts.EarningsEvent, bool) {
	now := c.clock.Now()
	today := now.Format(dateLayout)
	params := url.Values{
		"symbol": {ticker},
		"from":   {today},
		"to":     {now.AddDate(0, 0, earningsHorizonDays).Format(dateLayout)},
	}

	var resp earningsResponse
	if err := c.get(ctx, "/calendar/earnings", params, &resp); err != nil {
		c.unavailable(err, ticker, "earnings calendar")
		return nil, false
	}

	var dates []time.Time
	for _, e := range resp.EarningsCalendar {
		if e.Date < today {
			continue
		}
		d, err := time.Parse(dateLayout, e.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return []contracts.EarningsEvent{}, true
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return []contracts.EarningsEvent{{Date: dates[0]}}, true
}
