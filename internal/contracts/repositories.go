package contracts

import "context"

// FactRepository persists raw fact records keyed by ticker and metric.
// Implementations live in internal/store; the engine itself never
// touches storage.
type FactRepository interface {
	SaveFacts(ctx context.Context, ticker string, series MetricSeries) error
	GetFacts(ctx context.Context, ticker string) (MetricSeries, error)
}

// TransactionRepository persists disclosed insider transactions.
type TransactionRepository interface {
	SaveTransactions(ctx context.Context, ticker string, txs []Transaction) error
	GetTransactions(ctx context.Context, ticker string) ([]Transaction, error)
}

// ResultRepository persists finished analysis results.
type ResultRepository interface {
	SaveResult(ctx context.Context, result *AnalysisResult) error
	GetLatestResult(ctx context.Context, ticker string) (*AnalysisResult, error)
	ListResults(ctx context.Context, limit int) ([]*AnalysisResult, error)
}
