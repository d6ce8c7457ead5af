package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/tickergrade/internal/api/handlers"
	"github.com/wonny/tickergrade/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: every route is registered here
func NewRouter(
	analyzeHandler *handlers.AnalyzeHandler,
	macroHandler *handlers.MacroHandler,
	scanHandler *handlers.ScanHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Scoring
	api.HandleFunc("/analyze/{ticker}", analyzeHandler.Analyze).Methods("GET")
	api.HandleFunc("/macro/net-liquidity", macroHandler.NetLiquidity).Methods("GET")

	// Scanner
	api.HandleFunc("/scan", scanHandler.Scan).Methods("POST")
	api.HandleFunc("/scan/staging", scanHandler.Staging).Methods("GET")
	api.HandleFunc("/watchlist", scanHandler.ListWatchlist).Methods("GET")
	api.HandleFunc("/watchlist", scanHandler.AddWatchlist).Methods("POST")
	api.HandleFunc("/watchlist/{ticker}", scanHandler.RemoveWatchlist).Methods("DELETE")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "tickergrade-api",
	})
}

// statusRecorder captures the response code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
