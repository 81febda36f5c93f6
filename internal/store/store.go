// Package store persists transaction records: a SQLite store for the
// canonical table and a Parquet archive for offline analysis.
package store

import (
	"context"

	"bintrack/internal/domain"
)

// TransactionStore persists and retrieves transaction records.
type TransactionStore interface {
	// InsertTransactions persists a batch of records in one transaction.
	// Records whose natural key (exchange id, timestamp) already exists
	// are silently ignored; first write wins.
	InsertTransactions(ctx context.Context, txs []domain.Transaction) error

	// ListTransactions returns every persisted record.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// ListAssets returns the distinct set of assets appearing in either
	// leg of any record.
	ListAssets(ctx context.Context) ([]string, error)

	// Close releases the underlying connection.
	Close() error
}
