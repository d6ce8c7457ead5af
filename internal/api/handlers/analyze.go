package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/internal/scoring"
	"github.com/wonny/tickergrade/pkg/logger"
)

// Analyzer scores one ticker
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*contracts.Scorecard, error)
}

// AnalyzeHandler serves scorecards
type AnalyzeHandler struct {
	analyzer Analyzer
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer Analyzer, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		logger:   log,
	}
}

// PillarView is one pillar in the analyze response. Weight is a percentage.
type PillarView struct {
	Score   float64             `json:"score"`
	Weight  int                 `json:"weight"`
	Name    string              `json:"name"`
	Signal  string              `json:"signal"`
	Details contracts.Explainer `json:"details"`
}

// AnalyzeResponse is the body of GET /api/analyze/{ticker}
type AnalyzeResponse struct {
	Ticker       string                   `json:"ticker"`
	CompanyName  string                   `json:"company_name"`
	CurrentPrice float64                  `json:"current_price"`
	FinalScore   float64                  `json:"final_score"`
	Verdict      string                   `json:"verdict"`
	VerdictType  contracts.Severity       `json:"verdict_type"`
	Blackout     bool                     `json:"blackout"`
	ActionCard   contracts.ActionCard     `json:"action_card"`
	Pillars      map[string]PillarView    `json:"pillars"`
	PriceHistory []contracts.AnnotatedBar `json:"price_history"`
}

// NewAnalyzeResponse flattens a scorecard into the response shape
func NewAnalyzeResponse(card *contracts.Scorecard) AnalyzeResponse {
	resp := AnalyzeResponse{
		Ticker:       card.Ticker,
		CompanyName:  card.CompanyName,
		CurrentPrice: card.CurrentPrice,
		FinalScore:   card.Composite.FinalScore,
		Verdict:      card.Composite.Verdict,
		VerdictType:  card.Composite.Severity,
		Blackout:     card.Composite.Blackout,
		ActionCard:   card.ActionCard,
		Pillars:      make(map[string]PillarView, len(card.Pillars)),
		PriceHistory: card.PriceHistory,
	}
	for p, r := range card.Pillars {
		view := PillarView{
			Score:   r.Score,
			Weight:  int(math.Round(r.Weight * 100)),
			Name:    r.Name,
			Details: r.Details,
		}
		if r.Details != nil {
			view.Signal = r.Details.Signal()
		}
		resp.Pillars[string(p)] = view
	}
	return resp
}

// Analyze returns the scorecard for one ticker
// GET /api/analyze/{ticker}
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	card, err := h.analyzer.Analyze(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, scoring.ErrNoQuote) {
			respondError(w, http.StatusNotFound, "Invalid ticker symbol or no data available")
			return
		}
		h.logger.WithTicker(ticker).WithError(err).Error("Failed to analyze ticker")
		respondError(w, http.StatusInternalServerError, "Failed to analyze ticker")
		return
	}

	respondJSON(w, http.StatusOK, NewAnalyzeResponse(card))
}
