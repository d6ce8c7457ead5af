package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/clock"
	"github.com/wonny/tickergrade/pkg/logger"
)

// Scanner runs one watchlist scan
type Scanner interface {
	Run(ctx context.Context, category string) (*contracts.ScanResult, error)
}

// ScanHandler handles scan, staging and watchlist endpoints
// ⭐ SSOT: scanner HTTP surface lives here only
type ScanHandler struct {
	scanner   Scanner
	staging   contracts.StagingRepository
	watchlist contracts.WatchlistRepository
	clock     clock.Clock
	logger    *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(
	scanner Scanner,
	staging contracts.StagingRepository,
	watchlist contracts.WatchlistRepository,
	clk clock.Clock,
	log *logger.Logger,
) *ScanHandler {
	return &ScanHandler{
		scanner:   scanner,
		staging:   staging,
		watchlist: watchlist,
		clock:     clk,
		logger:    log,
	}
}

// Scan runs the scanner synchronously
// POST /api/scan?category=
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	result, err := h.scanner.Run(r.Context(), category)
	if err != nil {
		h.logger.WithError(err).Error("Scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Staging lists the staged results of one day (default today)
// GET /api/scan/staging?date=YYYY-MM-DD
func (h *ScanHandler) Staging(w http.ResponseWriter, r *http.Request) {
	date := h.clock.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
			return
		}
		date = parsed
	}

	recs, err := h.staging.ListByDate(r.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list staging")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve staging")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"count":   len(recs),
		"results": recs,
	})
}

// ListWatchlist returns the watchlist, optionally for one category
// GET /api/watchlist?category=
func (h *ScanHandler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.watchlist.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve watchlist")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// AddWatchlistRequest is the body of POST /api/watchlist
type AddWatchlistRequest struct {
	Ticker   string `json:"ticker"`
	Category string `json:"category"`
}

// AddWatchlist adds a ticker to the watchlist
// POST /api/watchlist
func (h *ScanHandler) AddWatchlist(w http.ResponseWriter, r *http.Request) {
	var req AddWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	item := contracts.WatchlistItem{Ticker: ticker, Category: strings.TrimSpace(req.Category)}
	if err := h.watchlist.Add(r.Context(), item); err != nil {
		h.logger.WithTicker(ticker).WithError(err).Error("Failed to add watchlist item")
		respondError(w, http.StatusInternalServerError, "Failed to add ticker")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// RemoveWatchlist removes a ticker from the watchlist
// DELETE /api/watchlist/{ticker}
func (h *ScanHandler) RemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])

	if err := h.watchlist.Remove(r.Context(), ticker); err != nil {
		h.logger.WithTicker(ticker).WithError(err).Error("Failed to remove watchlist item")
		respondError(w, http.StatusInternalServerError, "Failed to remove ticker")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
