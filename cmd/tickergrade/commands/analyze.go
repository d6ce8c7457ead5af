package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/tickergrade/internal/api/handlers"
	"github.com/wonny/tickergrade/internal/scoring"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Score one ticker",
	Long: `Fetch every input for a ticker and print its scorecard.

Example:
  go run ./cmd/tickergrade analyze AAPL
  go run ./cmd/tickergrade analyze NVDA --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeJSON bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the API response body")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	card, err := a.engine.Analyze(cmd.Context(), args[0])
	if errors.Is(err, scoring.ErrNoQuote) {
		return fmt.Errorf("invalid ticker symbol or no data available: %s", args[0])
	}
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(handlers.NewAnalyzeResponse(card))
	}

	printScorecard(os.Stdout, card)
	return nil
}
