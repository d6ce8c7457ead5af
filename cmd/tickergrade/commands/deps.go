package commands

import (
	"context"
	"fmt"

	"github.com/wonny/tickergrade/internal/cache"
	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/external/finnhub"
	"github.com/wonny/tickergrade/internal/external/fred"
	"github.com/wonny/tickergrade/internal/external/mdapp"
	"github.com/wonny/tickergrade/internal/marketdata"
	"github.com/wonny/tickergrade/internal/scanner"
	"github.com/wonny/tickergrade/internal/scoring"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/config"
	"github.com/wonny/tickergrade/pkg/database"
	"github.com/wonny/tickergrade/pkg/httputil"
	"github.com/wonny/tickergrade/pkg/logger"
	"github.com/wonny/tickergrade/pkg/redis"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	clock   clock.Clock
	store   *cache.Store
	service *marketdata.Service
	engine  *scoring.Engine

	// set by withRepositories
	watchlist contracts.WatchlistRepository
	staging   contracts.StagingRepository
	scanner   *scanner.Scanner

	closers []func()
}

// newApp wires config → logger → cache tiers → provider clients → data
// service → scoring engine
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	clk := clock.Real{}
	a := &app{cfg: cfg, log: log, clock: clk}

	// Cache tiers
	var shared cache.Shared
	if cfg.Cache.SharedEnabled {
		rc, err := redis.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { rc.Close() })
		if rc.Enabled() {
			shared = redis.NewCache(rc, "tickergrade")
			log.Info("Shared cache tier enabled")
		}
	}
	a.store = cache.NewStore(cache.NewMemory(cfg.Cache.TTL, clk), shared, log)
	macroFile := cache.NewFile[contracts.MacroSeries](cfg.Cache.MacroFile, cfg.Cache.MacroTTL, clk, log)

	// Provider clients, one rate-limited HTTP client each
	fh := finnhub.NewClient(providerHTTP(cfg.Finnhub, log), log, clk, cfg.Finnhub.BaseURL, cfg.Finnhub.APIKey)
	md := mdapp.NewClient(providerHTTP(cfg.MarketData, log), log, clk, cfg.MarketData.BaseURL, cfg.MarketData.APIKey)
	fr := fred.NewClient(providerHTTP(cfg.FRED, log), log, clk, cfg.FRED.BaseURL, cfg.FRED.APIKey)

	a.service = marketdata.NewService(md, fh, fr, a.store, macroFile, log)
	a.engine = scoring.NewEngine(a.service, clk, log, cfg.Scanner.HistoryDays)

	return a, nil
}

func providerHTTP(p config.ProviderConfig, log *logger.Logger) *httputil.Client {
	return httputil.New(log, p.Timeout).WithRateLimit(p.RateLimit)
}

// withRepositories opens the staging driver and builds the scanner
func (a *app) withRepositories(ctx context.Context) error {
	switch a.cfg.Scanner.StagingDriver {
	case config.DriverPostgres:
		db, err := database.New(a.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		repo := scanner.NewPostgresRepository(db.Pool)
		a.watchlist, a.staging = repo, repo
		a.log.Info("Connected to database")

	case config.DriverSQLite:
		repo, err := scanner.NewSQLiteRepository(a.cfg.Scanner.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { repo.Close() })
		a.watchlist, a.staging = repo, repo
		a.log.WithField("path", a.cfg.Scanner.SQLitePath).Info("Opened sqlite staging store")

	default:
		store := scanner.NewMemoryStore()
		a.watchlist, a.staging = store, store
		a.log.Warn("Using in-memory staging store; results are lost on exit")
	}

	if path := a.cfg.Scanner.WatchlistFile; path != "" {
		items, err := scanner.LoadWatchlistFile(path)
		if err != nil {
			return err
		}
		n, err := scanner.Import(ctx, a.watchlist, items)
		if err != nil {
			return err
		}
		a.log.WithFields(map[string]interface{}{"file": path, "tickers": n}).Info("Watchlist seeded")
	}

	a.scanner = scanner.New(a.engine, a.watchlist, a.staging, a.clock, a.log)
	return nil
}

// Close releases connections in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
