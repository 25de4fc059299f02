// Package db stores keyword comparison history in PostgreSQL.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS comparisons (
	id               UUID PRIMARY KEY,
	cv_source        TEXT NOT NULL DEFAULT '',
	job_source       TEXT NOT NULL DEFAULT '',
	top_n            INTEGER NOT NULL,
	cv_keywords      TEXT[] NOT NULL DEFAULT '{}',
	job_keywords     TEXT[] NOT NULL DEFAULT '{}',
	missing_keywords TEXT[] NOT NULL DEFAULT '{}',
	coverage         DOUBLE PRECISION NOT NULL,
	enhanced         BOOLEAN NOT NULL DEFAULT FALSE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS comparisons_created_at_idx ON comparisons (created_at DESC);
`

// Migrate creates the tables the package needs if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
