package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"bintrack/internal/domain"
)

// TxRecord is the Parquet schema for archived transactions. Amounts are
// stored as their canonical decimal strings, matching the SQLite columns.
type TxRecord struct {
	ExchangeID string `parquet:"exchange_id"`
	Timestamp  int64  `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	SellAsset  string `parquet:"sell_asset"`
	SellAmount string `parquet:"sell_amount"`
	BuyAsset   string `parquet:"buy_asset"`
	BuyAmount  string `parquet:"buy_amount"`
	Price      string `parquet:"price"`
	TxType     string `parquet:"tx_type"`
	Fee        string `parquet:"fee"`
}

// ParquetArchive mirrors the persisted transaction set to a Parquet file
// under the data directory, for consumption by offline analysis tools. The
// SQLite table stays the source of truth; the archive is rewritten whole
// after each ingest run.
type ParquetArchive struct {
	DataDir string
}

// NewParquetArchive creates a ParquetArchive rooted at the given data
// directory.
func NewParquetArchive(dataDir string) *ParquetArchive {
	return &ParquetArchive{DataDir: dataDir}
}

func (a *ParquetArchive) path() string {
	return filepath.Join(a.DataDir, "archive", "transactions.parquet")
}

// Write replaces the archive with the given transaction set.
func (a *ParquetArchive) Write(txs []domain.Transaction) error {
	path := a.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	records := make([]TxRecord, 0, len(txs))
	for i := range txs {
		tx := &txs[i]
		records = append(records, TxRecord{
			ExchangeID: tx.ExchangeID,
			Timestamp:  tx.Timestamp,
			SellAsset:  tx.SellAsset,
			SellAmount: tx.SellAmount.String(),
			BuyAsset:   tx.BuyAsset,
			BuyAmount:  tx.BuyAmount.String(),
			Price:      tx.Price.String(),
			TxType:     string(tx.Type),
			Fee:        tx.Fee.String(),
		})
	}

	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("writing transaction archive: %w", err)
	}
	return nil
}

// Read loads the archived transaction set. A missing archive yields an
// empty set, not an error.
func (a *ParquetArchive) Read() ([]domain.Transaction, error) {
	records, err := parquet.ReadFile[TxRecord](a.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading transaction archive: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		tx := domain.Transaction{
			ExchangeID: r.ExchangeID,
			Timestamp:  r.Timestamp,
			SellAsset:  r.SellAsset,
			BuyAsset:   r.BuyAsset,
			Type:       domain.TxType(r.TxType),
		}
		if tx.SellAmount, err = decimal.NewFromString(r.SellAmount); err != nil {
			return nil, fmt.Errorf("parsing archived sell_amount %q: %w", r.SellAmount, err)
		}
		if tx.BuyAmount, err = decimal.NewFromString(r.BuyAmount); err != nil {
			return nil, fmt.Errorf("parsing archived buy_amount %q: %w", r.BuyAmount, err)
		}
		if tx.Price, err = decimal.NewFromString(r.Price); err != nil {
			return nil, fmt.Errorf("parsing archived price %q: %w", r.Price, err)
		}
		if tx.Fee, err = decimal.NewFromString(r.Fee); err != nil {
			return nil, fmt.Errorf("parsing archived fee %q: %w", r.Fee, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
