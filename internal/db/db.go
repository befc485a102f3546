// Package db provides optional PostgreSQL persistence for collection runs.
// Connection failure degrades to a warning at the call site; the pipeline
// never depends on the database being reachable.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/holiday-collector/internal/aggregate"
)

// Schema creates the tables this package writes to. Applied idempotently on
// connect.
const Schema = `
CREATE TABLE IF NOT EXISTS collection_runs (
	id UUID PRIMARY KEY,
	year INT NOT NULL,
	status TEXT NOT NULL,
	countries INT NOT NULL DEFAULT 0,
	holidays INT NOT NULL DEFAULT 0,
	started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS holidays (
	run_id UUID NOT NULL REFERENCES collection_runs(id),
	country_code TEXT NOT NULL,
	country_name TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL,
	local_name TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	fixed BOOLEAN NOT NULL DEFAULT FALSE,
	global BOOLEAN NOT NULL DEFAULT FALSE,
	counties TEXT NOT NULL DEFAULT '',
	types TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and ensures the schema exists.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun records the start of a collection run.
func (db *DB) CreateRun(ctx context.Context, runID uuid.UUID, year int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO collection_runs (id, year, status) VALUES ($1, $2, 'running')`,
		runID, year,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks a collection run as finished with its final counts.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, countries, holidays int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE collection_runs
		 SET status = $1, countries = $2, holidays = $3, completed_at = NOW()
		 WHERE id = $4`,
		status, countries, holidays, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// InsertHolidays bulk-inserts the flattened rows for a run.
func (db *DB) InsertHolidays(ctx context.Context, runID uuid.UUID, rows []aggregate.Row) (int64, error) {
	count, err := db.pool.CopyFrom(ctx,
		pgx.Identifier{"holidays"},
		[]string{"run_id", "country_code", "country_name", "date", "local_name", "name", "fixed", "global", "counties", "types"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{runID, r.CountryCode, r.CountryName, r.Date, r.LocalName, r.Name, r.Fixed, r.Global, r.Counties, r.Types}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert holidays: %w", err)
	}
	return count, nil
}
