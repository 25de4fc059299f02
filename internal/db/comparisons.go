package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const comparisonColumns = `id, cv_source, job_source, top_n, cv_keywords, job_keywords,
	missing_keywords, coverage, enhanced, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanComparison(row scanner) (*Comparison, error) {
	var c Comparison
	err := row.Scan(&c.ID, &c.CVSource, &c.JobSource, &c.TopN, &c.CVKeywords, &c.JobKeywords,
		&c.MissingKeywords, &c.Coverage, &c.Enhanced, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveComparison inserts c, or replaces the record with the same ID.
// CreatedAt is filled from the database.
func (db *DB) SaveComparison(ctx context.Context, c *Comparison) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO comparisons (id, cv_source, job_source, top_n, cv_keywords, job_keywords,
		                          missing_keywords, coverage, enhanced)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     cv_source = $2, job_source = $3, top_n = $4, cv_keywords = $5, job_keywords = $6,
		     missing_keywords = $7, coverage = $8, enhanced = $9
		 RETURNING created_at`,
		c.ID, c.CVSource, c.JobSource, c.TopN, nonNil(c.CVKeywords), nonNil(c.JobKeywords),
		nonNil(c.MissingKeywords), c.Coverage, c.Enhanced,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save comparison: %w", err)
	}
	return nil
}

// GetComparison retrieves a comparison by ID, or ErrNotFound.
func (db *DB) GetComparison(ctx context.Context, id uuid.UUID) (*Comparison, error) {
	c, err := scanComparison(db.pool.QueryRow(ctx,
		`SELECT `+comparisonColumns+` FROM comparisons WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}
	return c, nil
}

// ListComparisons returns the most recent comparisons first.
func (db *DB) ListComparisons(ctx context.Context, limit int) ([]Comparison, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+comparisonColumns+` FROM comparisons ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	defer rows.Close()

	comparisons := []Comparison{}
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		comparisons = append(comparisons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	return comparisons, nil
}

// DeleteComparison removes a comparison. Missing IDs return ErrNotFound.
func (db *DB) DeleteComparison(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM comparisons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comparison: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
