package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/tickergrade/internal/api"
	"github.com/wonny/tickergrade/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET    /health                    - Health check
  GET    /api/health                - Health check
  GET    /api/analyze/{ticker}      - Five-pillar scorecard
  GET    /api/macro/net-liquidity   - Net liquidity vs SPY
  POST   /api/scan?category=        - Run a watchlist scan
  GET    /api/scan/staging?date=    - Staged scan results
  GET    /api/watchlist             - List watchlist
  POST   /api/watchlist             - Add a ticker
  DELETE /api/watchlist/{ticker}    - Remove a ticker

Example:
  go run ./cmd/tickergrade api
  go run ./cmd/tickergrade api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TickerGrade API Server ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	if err := a.withRepositories(cmd.Context()); err != nil {
		return err
	}

	router := api.NewRouter(
		handlers.NewAnalyzeHandler(a.engine, a.log),
		handlers.NewMacroHandler(a.service, a.log),
		handlers.NewScanHandler(a.scanner, a.staging, a.watchlist, a.clock, a.log),
		a.log,
	)
	server := api.New(a.cfg, a.log, router)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}
