package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filingsight/filingsight/internal/contracts"
)

// FactRepository implements contracts.FactRepository on PostgreSQL.
type FactRepository struct {
	pool *pgxpool.Pool
}

// NewFactRepository creates a fact repository.
func NewFactRepository(pool *pgxpool.Pool) *FactRepository {
	return &FactRepository{pool: pool}
}

// SaveFacts upserts every metric's raw record list for a ticker in one
// batch.
func (r *FactRepository) SaveFacts(ctx context.Context, ticker string, series contracts.MetricSeries) error {
	query := `
		INSERT INTO analysis.facts (ticker, metric, records, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (ticker, metric)
		DO UPDATE SET records = EXCLUDED.records, updated_at = now()
	`

	batch := &pgx.Batch{}
	for metric, records := range series {
		payload, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshal %s records: %w", metric, err)
		}
		batch.Queue(query, ticker, metric, payload)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range series {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save facts for %s: %w", ticker, err)
		}
	}
	return nil
}

// GetFacts loads every stored metric series for a ticker. A ticker with
// nothing stored yields an empty collection, not an error.
func (r *FactRepository) GetFacts(ctx context.Context, ticker string) (contracts.MetricSeries, error) {
	query := `SELECT metric, records FROM analysis.facts WHERE ticker = $1`

	rows, err := r.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("load facts for %s: %w", ticker, err)
	}
	defer rows.Close()

	series := make(contracts.MetricSeries)
	for rows.Next() {
		var metric string
		var payload []byte
		if err := rows.Scan(&metric, &payload); err != nil {
			return nil, fmt.Errorf("scan facts row: %w", err)
		}
		var records []contracts.FactRecord
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, fmt.Errorf("decode %s records: %w", metric, err)
		}
		series[metric] = records
	}
	return series, rows.Err()
}
