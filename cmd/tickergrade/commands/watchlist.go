package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tickergrade/internal/scanner"
)

// watchlistCmd represents the watchlist command
var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the scanner watchlist",
}

var (
	watchlistImportCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Import tickers from a YAML file",
		Long: `Import tickers grouped by category from a YAML file:

  categories:
    megacap: [AAPL, MSFT]
    semis: [NVDA, AMD]`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchlistImport,
	}

	watchlistListCmd = &cobra.Command{
		Use:   "list",
		Short: "List watchlist tickers",
		RunE:  runWatchlistList,
	}
)

var (
	watchlistCategory string
)

func init() {
	rootCmd.AddCommand(watchlistCmd)
	watchlistCmd.AddCommand(watchlistImportCmd)
	watchlistCmd.AddCommand(watchlistListCmd)

	watchlistListCmd.Flags().StringVar(&watchlistCategory, "category", "", "only list this category")
}

func runWatchlistImport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.withRepositories(cmd.Context()); err != nil {
		return err
	}

	items, err := scanner.LoadWatchlistFile(args[0])
	if err != nil {
		return err
	}
	n, err := scanner.Import(cmd.Context(), a.watchlist, items)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Imported %d tickers from %s\n", n, args[0])
	return nil
}

func runWatchlistList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.withRepositories(cmd.Context()); err != nil {
		return err
	}

	items, err := a.watchlist.List(cmd.Context(), watchlistCategory)
	if err != nil {
		return err
	}

	for _, item := range items {
		fmt.Printf("  %-8s %s\n", item.Ticker, item.Category)
	}
	fmt.Printf("\n%d tickers\n", len(items))
	return nil
}
