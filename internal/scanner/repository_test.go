package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tickergrade/internal/contracts"
	"github.com/wonny/tickergrade/pkg/config"
	"github.com/wonny/tickergrade/pkg/database"
)

type repository interface {
	contracts.WatchlistRepository
	contracts.StagingRepository
}

// exerciseRepository runs the shared contract against one backend
func exerciseRepository(t *testing.T, repo repository) {
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, contracts.WatchlistItem{Ticker: "aapl", Category: "megacap"}))
	require.NoError(t, repo.Add(ctx, contracts.WatchlistItem{Ticker: "NVDA", Category: "semis"}))
	require.NoError(t, repo.Add(ctx, contracts.WatchlistItem{Ticker: "AMD", Category: "semis"}))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "AAPL", all[0].Ticker)

	semis, err := repo.List(ctx, "semis")
	require.NoError(t, err)
	assert.Len(t, semis, 2)

	// re-adding moves the ticker
	require.NoError(t, repo.Add(ctx, contracts.WatchlistItem{Ticker: "AMD", Category: "megacap"}))
	semis, err = repo.List(ctx, "semis")
	require.NoError(t, err)
	assert.Len(t, semis, 1)

	require.NoError(t, repo.Remove(ctx, "nvda"))
	all, err = repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	day := time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)
	rec := contracts.StagingRecord{
		Ticker:    "AAPL",
		ScanDate:  day,
		Score:     8.4,
		Direction: contracts.DirectionBullish,
		RunID:     "run-1",
		ScannedAt: day,
	}
	require.NoError(t, repo.Upsert(ctx, rec))

	rec.Score = 4.0
	rec.Direction = contracts.DirectionBearish
	rec.RunID = "run-2"
	require.NoError(t, repo.Upsert(ctx, rec))

	other := rec
	other.Ticker = "AMD"
	other.Score = 9.1
	other.Direction = contracts.DirectionStrongBullish
	require.NoError(t, repo.Upsert(ctx, other))

	next := rec
	next.ScanDate = day.AddDate(0, 0, 1)
	require.NoError(t, repo.Upsert(ctx, next))

	staged, err := repo.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, staged, 2)
	assert.Equal(t, "AMD", staged[0].Ticker)
	assert.Equal(t, "AAPL", staged[1].Ticker)
	assert.Equal(t, 4.0, staged[1].Score)
	assert.Equal(t, contracts.DirectionBearish, staged[1].Direction)
	assert.Equal(t, "run-2", staged[1].RunID)
	assert.True(t, staged[1].ScannedAt.Equal(day))
	assert.Equal(t, "2026-03-02", staged[1].ScanDate.Format("2006-01-02"))

	empty, err := repo.ListByDate(ctx, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore(t *testing.T) {
	exerciseRepository(t, NewMemoryStore())
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "scan.db"))
	require.NoError(t, err)
	defer repo.Close()

	exerciseRepository(t, repo)
}

func TestPostgresRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := database.New(&config.Config{Database: config.DatabaseConfig{
		URL:             url,
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: time.Minute,
		MaxConnIdleTime: time.Minute,
	}})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE watchlist, scan_staging`)
	require.NoError(t, err)

	exerciseRepository(t, NewPostgresRepository(db.Pool))
}
