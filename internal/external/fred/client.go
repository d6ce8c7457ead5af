// Package fred builds the daily net-liquidity series from FRED observations.
package fred

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/httputil"
	"github.com/wonny/tickergrade/pkg/logger"
)

// Series IDs
const (
	SeriesBalanceSheet    = "WALCL"
	SeriesTreasuryAccount = "WTREGEN"
	SeriesReverseRepo     = "RRPONTSYD"
	SeriesCreditSpread    = "BAMLH0A0HYM2"
)

// Values substituted when a series returns no observations
const (
	DefaultBalanceSheet    = 7000000
	DefaultTreasuryAccount = 800000
	DefaultReverseRepo     = 500000
	DefaultCreditSpread    = 3.5
)

const (
	defaultBaseURL = "https://api.stlouisfed.org/fred"
	dateLayout     = "2006-01-02"
	// LookbackDays is the span of the macro series
	LookbackDays = 180
)

// Observation is one dated FRED value
type Observation struct {
	Date  time.Time
	Value float64
}

// Client handles communication with the FRED API
// ⭐ SSOT: FRED API calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	clock      clock.Clock
	baseURL    string
	apiKey     string
}

// NewClient creates a FRED client
func NewClient(httpClient *httputil.Client, log *logger.Logger, clk clock.Clock, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "fred"),
		clock:      clk,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Observations returns the numeric observations of a series, ascending.
// FRED reports missing values as "."; those are skipped.
func (c *Client) Observations(ctx context.Context, seriesID string, start, end time.Time) ([]Observation, error) {
	params := url.Values{
		"series_id":         {seriesID},
		"api_key":           {c.apiKey},
		"file_type":         {"json"},
		"observation_start": {start.Format(dateLayout)},
		"observation_end":   {end.Format(dateLayout)},
	}

	var resp observationsResponse
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"/series/observations?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fred %s: %w", seriesID, err)
	}

	out := make([]Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		d, err := time.Parse(dateLayout, o.Date)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		out = append(out, Observation{Date: d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// MacroSeries fetches the four liquidity inputs concurrently and aligns them
// on a daily calendar. A failed request makes the whole series unavailable.
func (c *Client) MacroSeries(ctx context.Context) (contracts.MacroSeries, bool) {
	series, err := c.macroSeries(ctx)
	if err != nil {
		c.logger.WithError(err).Error("FRED API error")
		return nil, false
	}
	return series, true
}

func (c *Client) macroSeries(ctx context.Context) (contracts.MacroSeries, error) {
	y, m, d := c.clock.Now().UTC().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -LookbackDays)

	ids := []string{SeriesBalanceSheet, SeriesTreasuryAccount, SeriesReverseRepo, SeriesCreditSpread}
	results := make([][]Observation, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			obs, err := c.Observations(gctx, id, start, end)
			if err != nil {
				return err
			}
			results[i] = obs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Info("Fetched fresh FRED data")
	return align(start, end,
		withDefault(results[0], DefaultBalanceSheet),
		withDefault(results[1], DefaultTreasuryAccount),
		withDefault(results[2], DefaultReverseRepo),
		withDefault(results[3], DefaultCreditSpread),
	), nil
}

// filler forward-fills one series across a daily calendar
type filler struct {
	obs      []Observation
	constant *float64
	next     int
	current  float64
	defined  bool
}

func withDefault(obs []Observation, fallback float64) *filler {
	if len(obs) == 0 {
		return &filler{constant: &fallback}
	}
	return &filler{obs: obs}
}

// at advances to day and returns the last observation on or before it
func (f *filler) at(day time.Time) (float64, bool) {
	if f.constant != nil {
		return *f.constant, true
	}
	for f.next < len(f.obs) && !f.obs[f.next].Date.After(day) {
		f.current = f.obs[f.next].Value
		f.defined = true
		f.next++
	}
	return f.current, f.defined
}

// align builds one point per calendar day in [start, end]. Days before any
// input has its first observation are dropped.
func align(start, end time.Time, balance, treasury, reverseRepo, spread *filler) contracts.MacroSeries {
	var out contracts.MacroSeries
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		b, ok1 := balance.at(day)
		t, ok2 := treasury.at(day)
		r, ok3 := reverseRepo.at(day)
		s, ok4 := spread.at(day)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		out = append(out, contracts.MacroPoint{
			Date:            day,
			BalanceSheet:    b,
			TreasuryAccount: t,
			ReverseRepo:     r,
			NetLiquidity:    contracts.NetLiquidityOf(b, t, r),
			CreditSpread:    s,
		})
	}
	return out
}
