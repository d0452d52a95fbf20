// Package store persists raw inputs and finished analysis results in
// PostgreSQL. The engine itself never touches this package; callers
// decide what to keep. Series and results are stored as JSONB so the
// schema does not chase every new metric.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS analysis`,
	`CREATE TABLE IF NOT EXISTS analysis.facts (
		ticker     TEXT        NOT NULL,
		metric     TEXT        NOT NULL,
		records    JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (ticker, metric)
	)`,
	`CREATE TABLE IF NOT EXISTS analysis.insider_transactions (
		ticker       TEXT        NOT NULL PRIMARY KEY,
		transactions JSONB       NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS analysis.results (
		id             BIGSERIAL PRIMARY KEY,
		ticker         TEXT        NOT NULL,
		as_of          DATE        NOT NULL,
		classification TEXT        NOT NULL,
		confidence     TEXT        NOT NULL,
		payload        JSONB       NOT NULL,
		generated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_results_ticker_generated
		ON analysis.results (ticker, generated_at DESC)`,
}

// Migrate creates the analysis schema and tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
