package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"bintrack/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ TransactionStore = (*SQLiteStore)(nil)

// Amount columns are stored as text so decimal values round-trip without
// floating-point drift.
const schema = `
create table if not exists transactions
(
	binance_id text,
	timestamp  integer,
	s_asset    text,
	s_amount   text,
	b_asset    text,
	b_amount   text,
	price      text,
	tx_type    text,
	fee        text,
	primary key (binance_id, timestamp)
);
`

// SQLiteStore implements TransactionStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, ensures the
// transactions table exists, and returns a ready-to-use store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", dbPath, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating transactions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertTransactions persists all records in a single database transaction
// using INSERT OR IGNORE, so duplicate natural keys are skipped without
// failing the batch.
func (s *SQLiteStore) InsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer dbtx.Rollback()

	stmt, err := dbtx.PrepareContext(ctx, `
		insert or ignore into transactions
		(binance_id, timestamp, s_asset, s_amount, b_asset, b_amount, price, tx_type, fee)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range txs {
		tx := &txs[i]
		_, err := stmt.ExecContext(ctx,
			tx.ExchangeID,
			tx.Timestamp,
			tx.SellAsset,
			tx.SellAmount.String(),
			tx.BuyAsset,
			tx.BuyAmount.String(),
			tx.Price.String(),
			string(tx.Type),
			tx.Fee.String(),
		)
		if err != nil {
			return fmt.Errorf("inserting transaction %s/%d: %w", tx.ExchangeID, tx.Timestamp, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("committing insert transaction: %w", err)
	}
	return nil
}

// ListTransactions returns every persisted record, reconstructing exact
// decimals from the stored text columns.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		select binance_id, timestamp, s_asset, s_amount, b_asset, b_amount, price, tx_type, fee
		from transactions`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var sAmount, bAmount, price, txType, fee string
		if err := rows.Scan(&tx.ExchangeID, &tx.Timestamp, &tx.SellAsset, &sAmount,
			&tx.BuyAsset, &bAmount, &price, &txType, &fee); err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}

		if tx.SellAmount, err = decimal.NewFromString(sAmount); err != nil {
			return nil, fmt.Errorf("parsing s_amount %q: %w", sAmount, err)
		}
		if tx.BuyAmount, err = decimal.NewFromString(bAmount); err != nil {
			return nil, fmt.Errorf("parsing b_amount %q: %w", bAmount, err)
		}
		if tx.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parsing price %q: %w", price, err)
		}
		if tx.Fee, err = decimal.NewFromString(fee); err != nil {
			return nil, fmt.Errorf("parsing fee %q: %w", fee, err)
		}
		tx.Type = domain.TxType(txType)

		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// ListAssets returns the distinct union of buy-side and sell-side assets.
func (s *SQLiteStore) ListAssets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		select distinct t.b_asset as asset from transactions as t
		union
		select distinct t2.s_asset as asset from transactions as t2`)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var assets []string
	for rows.Next() {
		var asset string
		if err := rows.Scan(&asset); err != nil {
			return nil, fmt.Errorf("scanning asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}
