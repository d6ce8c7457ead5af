package main

import (
	"os"

	"github.com/wonny/tickergrade/cmd/tickergrade/commands"
)

// main is the entry point for the TickerGrade CLI
// ⭐ single CLI entry point: go run ./cmd/tickergrade [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
