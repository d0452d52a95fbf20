package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filingsight/filingsight/internal/contracts"
)

// TransactionRepository implements contracts.TransactionRepository on
// PostgreSQL.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a transaction repository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// SaveTransactions replaces the stored insider feed for a ticker.
func (r *TransactionRepository) SaveTransactions(ctx context.Context, ticker string, txs []contracts.Transaction) error {
	payload, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}

	query := `
		INSERT INTO analysis.insider_transactions (ticker, transactions, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (ticker)
		DO UPDATE SET transactions = EXCLUDED.transactions, updated_at = now()
	`
	if _, err := r.pool.Exec(ctx, query, ticker, payload); err != nil {
		return fmt.Errorf("save transactions for %s: %w", ticker, err)
	}
	return nil
}

// GetTransactions loads the stored insider feed for a ticker; a ticker
// with nothing stored yields an empty list.
func (r *TransactionRepository) GetTransactions(ctx context.Context, ticker string) ([]contracts.Transaction, error) {
	query := `SELECT transactions FROM analysis.insider_transactions WHERE ticker = $1`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&payload)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load transactions for %s: %w", ticker, err)
	}

	var txs []contracts.Transaction
	if err := json.Unmarshal(payload, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}
