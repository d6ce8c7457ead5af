package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tickergrade/internal/contracts"
)

// PostgresRepository persists the watchlist and staging tables in Postgres.
// Tables are created by database.DB.Migrate.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository instance
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns watchlist items, filtered by category when non-empty
func (r *PostgresRepository) List(ctx context.Context, category string) ([]contracts.WatchlistItem, error) {
	query := `
		SELECT ticker, category, created_at
		FROM watchlist
		WHERE ($1::text = '' OR category = $1)
		ORDER BY ticker
	`

	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.WatchlistItem, error) {
		var item contracts.WatchlistItem
		err := row.Scan(&item.Ticker, &item.Category, &item.CreatedAt)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan watchlist: %w", err)
	}

	return items, nil
}

// Add inserts a ticker or moves it to a new category
func (r *PostgresRepository) Add(ctx context.Context, item contracts.WatchlistItem) error {
	query := `
		INSERT INTO watchlist (ticker, category, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			category = EXCLUDED.category
	`

	if _, err := r.db.Exec(ctx, query, strings.ToUpper(item.Ticker), item.Category); err != nil {
		return fmt.Errorf("insert watchlist item: %w", err)
	}
	return nil
}

// Remove deletes a ticker from the watchlist
func (r *PostgresRepository) Remove(ctx context.Context, ticker string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM watchlist WHERE ticker = $1`, strings.ToUpper(ticker)); err != nil {
		return fmt.Errorf("delete watchlist item: %w", err)
	}
	return nil
}

// Upsert inserts or overwrites the staging row for (ticker, scan date)
func (r *PostgresRepository) Upsert(ctx context.Context, rec contracts.StagingRecord) error {
	query := `
		INSERT INTO scan_staging (
			ticker,
			scan_date,
			score,
			direction,
			run_id,
			scanned_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticker, scan_date) DO UPDATE SET
			score = EXCLUDED.score,
			direction = EXCLUDED.direction,
			run_id = EXCLUDED.run_id,
			scanned_at = EXCLUDED.scanned_at
	`

	_, err := r.db.Exec(ctx, query,
		rec.Ticker,
		ScanDay(rec.ScanDate),
		rec.Score,
		string(rec.Direction),
		rec.RunID,
		rec.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert staging: %w", err)
	}

	return nil
}

// ListByDate returns the staged rows for one day, best score first
func (r *PostgresRepository) ListByDate(ctx context.Context, date time.Time) ([]contracts.StagingRecord, error) {
	query := `
		SELECT ticker, scan_date, score, direction, run_id, scanned_at
		FROM scan_staging
		WHERE scan_date = $1
		ORDER BY score DESC, ticker
	`

	rows, err := r.db.Query(ctx, query, ScanDay(date))
	if err != nil {
		return nil, fmt.Errorf("query staging: %w", err)
	}

	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.StagingRecord, error) {
		var rec contracts.StagingRecord
		var direction string
		err := row.Scan(&rec.Ticker, &rec.ScanDate, &rec.Score, &direction, &rec.RunID, &rec.ScannedAt)
		rec.Direction = contracts.Direction(direction)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan staging: %w", err)
	}

	return recs, nil
}
