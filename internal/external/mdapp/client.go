// Package mdapp reads quotes, daily candles and earnings dates from the
// MarketData.app REST API.
package mdapp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/httputil"
	"github.com/wonny/tickergrade/pkg/logger"
)

const (
	defaultBaseURL      = "https://api.marketdata.app/v1"
	dateLayout          = "2006-01-02"
	earningsHorizonDays = 90

	statusOK     = "ok"
	statusNoData = "no_data"
)

// ErrNoData is returned when the provider answers without rows
var ErrNoData = errors.New("no data")

// Client handles communication with MarketData.app
// ⭐ SSOT: MarketData.app API calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	clock      clock.Clock
	baseURL    string
}

// NewClient creates a MarketData.app client authenticated with a bearer token
func NewClient(httpClient *httputil.Client, log *logger.Logger, clk clock.Clock, baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if token != "" {
		httpClient.WithHeader("Authorization", "Bearer "+token)
	} else {
		log.Warn("MarketData API token missing, requests are unauthenticated")
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "marketdata"),
		clock:      clk,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	if err := c.httpClient.GetJSON(ctx, fullURL, dest); err != nil {
		return fmt.Errorf("marketdata %s: %w", path, err)
	}
	return nil
}

// MarketData.app answers with parallel column arrays
type quoteResponse struct {
	S         string    `json:"s"`
	Symbol    []string  `json:"symbol"`
	Last      []float64 `json:"last"`
	Change    []float64 `json:"change"`
	ChangePct []float64 `json:"changepct"`
	Volume    []float64 `json:"volume"`
}

// Quote returns the real-time price snapshot
func (c *Client) Quote(ctx context.Context, ticker string) (contracts.Quote, bool) {
	ticker = strings.ToUpper(ticker)

	var resp quoteResponse
	if err := c.get(ctx, "/stocks/quotes/"+url.PathEscape(ticker)+"/", nil, &resp); err != nil {
		c.logger.WithTicker(ticker).WithError(err).Warn("Failed to fetch quote")
		return contracts.Quote{}, false
	}
	if resp.S != statusOK || len(resp.Last) == 0 {
		return contracts.Quote{}, false
	}

	q := contracts.Quote{Symbol: ticker, Name: ticker, Price: resp.Last[0]}
	if len(resp.Change) > 0 {
		q.Change = resp.Change[0]
	}
	if len(resp.ChangePct) > 0 {
		q.ChangePercent = resp.ChangePct[0] * 100
	}
	return q, true
}

type candlesResponse struct {
	S string    `json:"s"`
	T []int64   `json:"t"`
	O []float64 `json:"o"`
	H []float64 `json:"h"`
	L []float64 `json:"l"`
	C []float64 `json:"c"`
	V []float64 `json:"v"`
}

// Candles returns daily bars covering the last days calendar days, ascending
func (c *Client) Candles(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, bool) {
	bars, err := c.candles(ctx, strings.ToUpper(ticker), days)
	if err != nil {
		c.logger.WithTicker(ticker).WithError(err).Warn("Failed to fetch candles")
		return nil, false
	}
	return bars, true
}

func (c *Client) candles(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, error) {
	now := c.clock.Now()
	params := url.Values{
		"from": {now.AddDate(0, 0, -days).Format(dateLayout)},
		"to":   {now.Format(dateLayout)},
	}

	var resp candlesResponse
	if err := c.get(ctx, "/stocks/candles/D/"+url.PathEscape(ticker)+"/", params, &resp); err != nil {
		return nil, err
	}
	if resp.S == statusNoData || len(resp.T) == 0 {
		return nil, ErrNoData
	}
	if resp.S != statusOK {
		return nil, fmt.Errorf("unexpected status %q", resp.S)
	}

	n := len(resp.T)
	if len(resp.O) != n || len(resp.H) != n || len(resp.L) != n || len(resp.C) != n || len(resp.V) != n {
		return nil, fmt.Errorf("ragged candle columns for %s", ticker)
	}

	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		bars[i] = contracts.PriceBar{
			Date:   time.Unix(resp.T[i], 0).UTC(),
			Open:   resp.O[i],
			High:   resp.H[i],
			Low:    resp.L[i],
			Close:  resp.C[i],
			Volume: resp.V[i],
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

type earningsResponse struct {
	S          string  `json:"s"`
	ReportDate []int64 `json:"reportDate"`
}

// Earnings returns the nearest report date within 90 days. No scheduled
// report is an empty, available result.
func (c *Client) Earnings(ctx context.Context, ticker string) ([]contracts.EarningsEvent, bool) {
	ticker = strings.ToUpper(ticker)
	now := c.clock.Now()
	params := url.Values{
		"from": {now.Format(dateLayout)},
		"to":   {now.AddDate(0, 0, earningsHorizonDays).Format(dateLayout)},
	}

	var resp earningsResponse
	if err := c.get(ctx, "/stocks/earnings/"+url.PathEscape(ticker)+"/", params, &resp); err != nil {
		c.logger.WithTicker(ticker).WithError(err).Warn("Failed to fetch earnings")
		return nil, false
	}

	today := now.Format(dateLayout)
	var next *time.Time
	for _, ts := range resp.ReportDate {
		d := time.Unix(ts, 0).UTC()
		if d.Format(dateLayout) < today {
			continue
		}
		if next == nil || d.Before(*next) {
			next = &d
		}
	}
	if next == nil {
		return []contracts.EarningsEvent{}, true
	}

	c.logger.WithTicker(ticker).WithField("date", next.Format(dateLayout)).Info("MarketData earnings found")
	return []contracts.EarningsEvent{{Date: *next}}, true
}
