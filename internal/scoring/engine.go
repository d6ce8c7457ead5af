// Package scoring turns one ticker's market data into a scorecard.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wonny/tickergrade/internal/actioncard"
	"github.com/wonny/tickergrade/internal/composite"
	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/pillars"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/logger"
)

// ErrNoQuote is returned when the ticker has no current price
var ErrNoQuote = errors.New("no quote available")

// DefaultHistoryDays is the candle window requested per ticker
const DefaultHistoryDays = 365

// DataSource supplies every scoring input with explicit availability
type DataSource interface {
	Quote(ctx context.Context, ticker string) (contracts.Quote, bool)
	History(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, bool)
	Ratings(ctx context.Context, ticker string) ([]contracts.AnalystRating, bool)
	News(ctx context.Context, ticker string) ([]contracts.NewsItem, bool)
	PriceTarget(ctx context.Context, ticker string) (contracts.PriceTarget, bool)
	Metrics(ctx context.Context, ticker string) (contracts.KeyMetrics, bool)
	Earnings(ctx context.Context, ticker string) ([]contracts.EarningsEvent, bool)
	Macro(ctx context.Context) (contracts.MacroSeries, bool)
}

// Inputs is everything Evaluate needs for one ticker.
// Unavailable lists are nil; unavailable records are None.
type Inputs struct {
	Ticker   string
	Quote    contracts.Quote
	Bars     []contracts.PriceBar
	Ratings  []contracts.AnalystRating
	News     []contracts.NewsItem
	Target   contracts.Optional[contracts.PriceTarget]
	Metrics  contracts.Optional[contracts.KeyMetrics]
	Earnings []contracts.EarningsEvent
	Macro    contracts.Optional[contracts.MacroSeries]
}

// Engine scores tickers
// ⭐ SSOT: the only place the five pillars, the composite and the action card meet
type Engine struct {
	source      DataSource
	clock       clock.Clock
	logger      *logger.Logger
	historyDays int

	technicals *pillars.Technicals
	catalysts  *pillars.Catalysts
	value      *pillars.Value
	macro      *pillars.Macro
	eventRisk  *pillars.EventRisk
}

// NewEngine creates a scoring engine. historyDays <= 0 uses DefaultHistoryDays.
func NewEngine(source DataSource, clk clock.Clock, log *logger.Logger, historyDays int) *Engine {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &Engine{
		source:      source,
		clock:       clk,
		logger:      log,
		historyDays: historyDays,
		technicals:  pillars.NewTechnicals(log),
		catalysts:   pillars.NewCatalysts(log, pillars.NewHeadlineAnalyzer()),
		value:       pillars.NewValue(log),
		macro:       pillars.NewMacro(log),
		eventRisk:   pillars.NewEventRisk(log),
	}
}

// Analyze fetches every input for ticker and scores it.
// It fails only when no quote is available.
func (e *Engine) Analyze(ctx context.Context, ticker string) (*contracts.Scorecard, error) {
	in, err := e.Gather(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(in, e.clock.Now()), nil
}

// Gather fetches the scoring inputs concurrently
func (e *Engine) Gather(ctx context.Context, ticker string) (Inputs, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	in := Inputs{Ticker: ticker}

	quote, ok := e.source.Quote(ctx, ticker)
	if !ok {
		return in, fmt.Errorf("%s: %w", ticker, ErrNoQuote)
	}
	in.Quote = quote

	// each fetch degrades to an unavailable input on its own, so none of
	// them can fail the gather
	var wg sync.WaitGroup
	fetch := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	fetch(func() {
		if bars, ok := e.source.History(ctx, ticker, e.historyDays); ok {
			in.Bars = bars
		}
	})
	fetch(func() {
		if ratings, ok := e.source.Ratings(ctx, ticker); ok {
			in.Ratings = ratings
		}
	})
	fetch(func() {
		if news, ok := e.source.News(ctx, ticker); ok {
			in.News = news
		}
	})
	fetch(func() {
		if target, ok := e.source.PriceTarget(ctx, ticker); ok {
			in.Target = contracts.Some(target)
		}
	})
	fetch(func() {
		if metrics, ok := e.source.Metrics(ctx, ticker); ok {
			in.Metrics = contracts.Some(metrics)
		}
	})
	fetch(func() {
		if events, ok := e.source.Earnings(ctx, ticker); ok {
			in.Earnings = events
		}
	})
	fetch(func() {
		if series, ok := e.source.Macro(ctx); ok {
			in.Macro = contracts.Some(series)
		}
	})
	wg.Wait()

	return in, nil
}

// Evaluate scores gathered inputs as of now. It does no I/O.
func (e *Engine) Evaluate(in Inputs, now time.Time) *contracts.Scorecard {
	price := in.Quote.Price

	techResult, techDetails := e.technicals.Score(in.Ticker, in.Bars)
	catResult, _ := e.catalysts.Score(in.Ticker, in.Ratings, in.News)
	valueResult, valueDetails := e.value.Score(in.Ticker, price, in.Target, in.Metrics)
	macroResult, _ := e.macro.Score(in.Macro)
	eventResult, eventDetails := e.eventRisk.Score(in.Ticker, in.Earnings, now)

	results := map[contracts.Pillar]contracts.PillarResult{
		contracts.PillarTechnicals: techResult,
		contracts.PillarCatalysts:  catResult,
		contracts.PillarValue:      valueResult,
		contracts.PillarMacro:      macroResult,
		contracts.PillarEventRisk:  eventResult,
	}

	comp := composite.Aggregate(results, eventDetails.Blackout)

	card := actioncard.Calculate(actioncard.Inputs{
		Price:         price,
		ATR:           techDetails.ATR14,
		Support:       techDetails.StopLossSupport,
		AnalystTarget: valueDetails.AvgPriceTarget,
	})

	name := in.Quote.Name
	if name == "" {
		name = in.Ticker
	}

	e.logger.WithTicker(in.Ticker).WithFields(map[string]interface{}{
		"final_score": comp.FinalScore,
		"verdict":     comp.Verdict,
		"blackout":    comp.Blackout,
		"bars":        len(in.Bars),
	}).Info("Ticker scored")

	return &contracts.Scorecard{
		Ticker:       in.Ticker,
		CompanyName:  name,
		CurrentPrice: pillars.Round(price, 2),
		Composite:    comp,
		ActionCard:   actioncard.Rounded(card),
		Pillars:      results,
		PriceHistory: Annotate(in.Bars),
		ScoredAt:     now,
	}
}
