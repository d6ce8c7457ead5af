package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the watchlist once",
	Long: `Score every watchlist ticker and stage scores >= 8.0 or <= 5.0.

Example:
  go run ./cmd/tickergrade scan
  go run ./cmd/tickergrade scan --category semis`,
	RunE: runScan,
}

var (
	scanCategory string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanCategory, "category", "", "only scan this watchlist category")
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.withRepositories(cmd.Context()); err != nil {
		return err
	}

	result, err := a.scanner.Run(cmd.Context(), scanCategory)
	if err != nil {
		return err
	}

	printScanResult(os.Stdout, result)

	recs, err := a.staging.ListByDate(cmd.Context(), a.clock.Now())
	if err != nil {
		return fmt.Errorf("list staging: %w", err)
	}
	printStaging(os.Stdout, recs)
	return nil
}
