package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS opened_jobs (
	url             TEXT PRIMARY KEY,
	first_opened_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_opened_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	open_count      INTEGER NOT NULL DEFAULT 1
)`

const upsertOpenedSQL = `
INSERT INTO opened_jobs (url) VALUES ($1)
ON CONFLICT (url)
DO UPDATE SET last_opened_at = now(), open_count = opened_jobs.open_count + 1`

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	//pgbouncer in transaction mode does not support prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create opened_jobs table: %w", err)
	}
	return nil
}

// RecordOpened upserts every url in one batch, bumping the open counter of
// urls seen before.
func (r *Repository) RecordOpened(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range urls {
		batch.Queue(upsertOpenedSQL, u)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range urls {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to record opened job: %w", err)
		}
	}
	return nil
}

// OpenCount returns how many times url was opened, zero if never.
func (r *Repository) OpenCount(ctx context.Context, url string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT open_count FROM opened_jobs WHERE url = $1", url).Scan(&count)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get open count: %w", err)
	}
	return count, nil
}
