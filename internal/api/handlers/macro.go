package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/marketdata"
	"github.com/wonny/tickergrade/pkg/logger"
)

// MacroSource supplies the macro series and the benchmark history
type MacroSource interface {
	Macro(ctx context.Context) (contracts.MacroSeries, bool)
	Benchmark(ctx context.Context) ([]contracts.PriceBar, bool)
}

// MacroHandler serves the liquidity chart
type MacroHandler struct {
	source MacroSource
	logger *logger.Logger
}

// NewMacroHandler creates a new macro handler
func NewMacroHandler(source MacroSource, log *logger.Logger) *MacroHandler {
	return &MacroHandler{
		source: source,
		logger: log,
	}
}

// NetLiquidity returns the trailing net liquidity chart against SPY
// GET /api/macro/net-liquidity
func (h *MacroHandler) NetLiquidity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	series, ok := h.source.Macro(ctx)
	if !ok || len(series) == 0 {
		h.logger.Warn("Macro series unavailable for liquidity chart")
		respondError(w, http.StatusInternalServerError, "Unable to fetch FRED data")
		return
	}

	// the chart still renders without the benchmark
	bars, _ := h.source.Benchmark(ctx)

	respondJSON(w, http.StatusOK, marketdata.BuildLiquidityChart(series, bars))
}
