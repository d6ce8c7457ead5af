package scanner

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wonny/tickergrade/internal/contracts"
)

// WatchlistFile is the YAML seed format:
//
//	categories:
//	  megacap: [AAPL, MSFT]
//	  semis: [NVDA, AMD]
type WatchlistFile struct {
	Categories map[string][]string `yaml:"categories"`
}

// LoadWatchlistFile parses a YAML watchlist seed file
func LoadWatchlistFile(path string) ([]contracts.WatchlistItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist file: %w", err)
	}

	var file WatchlistFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse watchlist file: %w", err)
	}

	categories := make([]string, 0, len(file.Categories))
	for category := range file.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	// a ticker listed twice keeps its first category
	seen := make(map[string]bool)
	var items []contracts.WatchlistItem
	for _, category := range categories {
		for _, t := range file.Categories[category] {
			ticker := strings.ToUpper(strings.TrimSpace(t))
			if ticker == "" || seen[ticker] {
				continue
			}
			seen[ticker] = true
			items = append(items, contracts.WatchlistItem{Ticker: ticker, Category: category})
		}
	}
	return items, nil
}

// Import adds every item to repo and returns how many were written
func Import(ctx context.Context, repo contracts.WatchlistRepository, items []contracts.WatchlistItem) (int, error) {
	for i, item := range items {
		if err := repo.Add(ctx, item); err != nil {
			return i, fmt.Errorf("import %s: %w", item.Ticker, err)
		}
	}
	return len(items), nil
}
