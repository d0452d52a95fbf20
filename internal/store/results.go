package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filingsight/filingsight/internal/contracts"
)

// ResultRepository implements contracts.ResultRepository on PostgreSQL.
// Results are append-only; every analysis run inserts a new row.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a result repository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveResult appends a finished analysis result.
func (r *ResultRepository) SaveResult(ctx context.Context, result *contracts.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	query := `
		INSERT INTO analysis.results (ticker, as_of, classification, confidence, payload, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		result.Ticker,
		result.AsOf,
		string(result.Verdict.Classification),
		string(result.Verdict.Confidence),
		payload,
		result.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("save result for %s: %w", result.Ticker, err)
	}
	return nil
}

// GetLatestResult returns the most recent result for a ticker, or nil
// when none exists.
func (r *ResultRepository) GetLatestResult(ctx context.Context, ticker string) (*contracts.AnalysisResult, error) {
	query := `
		SELECT payload FROM analysis.results
		WHERE ticker = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&payload)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load result for %s: %w", ticker, err)
	}

	var result contracts.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// ListResults returns the newest results across tickers.
func (r *ResultRepository) ListResults(ctx context.Context, limit int) ([]*contracts.AnalysisResult, error) {
	query := `
		SELECT payload FROM analysis.results
		ORDER BY generated_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []*contracts.AnalysisResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		var result contracts.AnalysisResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
