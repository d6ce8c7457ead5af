package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tickergrade",
	Short: "TickerGrade - five-pillar trade-worthiness scoring",
	Long: `TickerGrade Unified CLI

Scores a security from 0 to 10 across technicals, catalysts, value,
macro liquidity and event risk, and scans a watchlist for extremes.

Usage:
  go run ./cmd/tickergrade [command]

Examples:
  go run ./cmd/tickergrade api
  go run ./cmd/tickergrade analyze AAPL
  go run ./cmd/tickergrade scan --category semis
  go run ./cmd/tickergrade scheduler start
  go run ./cmd/tickergrade watchlist import watchlist.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
