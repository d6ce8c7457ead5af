package scanner

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wonny/tickergrade/internal/contracts"
)

// SQLiteRepository persists the watchlist and staging tables in a local file
type SQLiteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRepository opens (or creates) the database and runs migrations
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS watchlist (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker     TEXT NOT NULL UNIQUE,
			category   TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scan_staging (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker     TEXT NOT NULL,
			scan_date  TEXT NOT NULL,
			score      REAL NOT NULL,
			direction  TEXT NOT NULL,
			run_id     TEXT NOT NULL DEFAULT '',
			scanned_at INTEGER NOT NULL,
			UNIQUE (ticker, scan_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_staging_date ON scan_staging(scan_date)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// List returns watchlist items, filtered by category when non-empty
func (r *SQLiteRepository) List(ctx context.Context, category string) ([]contracts.WatchlistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ticker, category, created_at FROM watchlist
		 WHERE (? = '' OR category = ?) ORDER BY ticker`,
		category, category)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	items := []contracts.WatchlistItem{}
	for rows.Next() {
		var item contracts.WatchlistItem
		var created int64
		if err := rows.Scan(&item.Ticker, &item.Category, &created); err != nil {
			return nil, fmt.Errorf("scan watchlist: %w", err)
		}
		item.CreatedAt = time.Unix(created, 0).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add inserts a ticker or moves it to a new category
func (r *SQLiteRepository) Add(ctx context.Context, item contracts.WatchlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := item.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO watchlist (ticker, category, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(ticker) DO UPDATE SET category = excluded.category`,
		strings.ToUpper(item.Ticker), item.Category, created.Unix())
	if err != nil {
		return fmt.Errorf("insert watchlist item: %w", err)
	}
	return nil
}

// Remove deletes a ticker from the watchlist
func (r *SQLiteRepository) Remove(ctx context.Context, ticker string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM watchlist WHERE ticker = ?`, strings.ToUpper(ticker)); err != nil {
		return fmt.Errorf("delete watchlist item: %w", err)
	}
	return nil
}

// Upsert inserts or overwrites the staging row for (ticker, scan date)
func (r *SQLiteRepository) Upsert(ctx context.Context, rec contracts.StagingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scan_staging (ticker, scan_date, score, direction, run_id, scanned_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(ticker, scan_date) DO UPDATE SET
			score = excluded.score,
			direction = excluded.direction,
			run_id = excluded.run_id,
			scanned_at = excluded.scanned_at`,
		rec.Ticker,
		ScanDay(rec.ScanDate).Format(dateLayout),
		rec.Score,
		string(rec.Direction),
		rec.RunID,
		rec.ScannedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert staging: %w", err)
	}
	return nil
}

// ListByDate returns the staged rows for one day, best score first
func (r *SQLiteRepository) ListByDate(ctx context.Context, date time.Time) ([]contracts.StagingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ticker, scan_date, score, direction, run_id, scanned_at FROM scan_staging
		 WHERE scan_date = ? ORDER BY score DESC, ticker`,
		ScanDay(date).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query staging: %w", err)
	}
	defer rows.Close()

	recs := []contracts.StagingRecord{}
	for rows.Next() {
		var rec contracts.StagingRecord
		var day, direction string
		var scanned int64
		if err := rows.Scan(&rec.Ticker, &day, &rec.Score, &direction, &rec.RunID, &scanned); err != nil {
			return nil, fmt.Errorf("scan staging: %w", err)
		}
		parsed, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse scan date %q: %w", day, err)
		}
		rec.ScanDate = parsed
		rec.Direction = contracts.Direction(direction)
		rec.ScannedAt = time.UnixMilli(scanned).UTC()
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
