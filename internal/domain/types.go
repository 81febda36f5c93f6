// Package domain defines the core business types shared across the
// application: settled transactions and their classification.
package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// TxType classifies a transaction from the perspective of the held asset.
type TxType string

const (
	TxTypeBuy  TxType = "BUY"
	TxTypeSell TxType = "SELL"
)

// Transaction is a settled trade or conversion event. Instances are
// constructed once from an external payload or a persisted row and never
// modified afterwards. The pair (ExchangeID, Timestamp) is the natural key.
type Transaction struct {
	ExchangeID string          // exchange-assigned identifier
	Timestamp  int64           // event time, Unix milliseconds
	SellAsset  string          // asset given up
	SellAmount decimal.Decimal //
	BuyAsset   string          // asset received
	BuyAmount  decimal.Decimal //
	Price      decimal.Decimal // execution ratio
	Type       TxType          //
	Fee        decimal.Decimal // zero when the source reports none
}

// FieldValues returns the canonical string form of every field in
// construction order. The sequence feeds the content hash used for
// deduplication, so two transactions with identical field values yield the
// same sequence regardless of which source shape they came from.
func (t *Transaction) FieldValues() []string {
	return []string{
		t.ExchangeID,
		strconv.FormatInt(t.Timestamp, 10),
		t.SellAsset,
		t.SellAmount.String(),
		t.BuyAsset,
		t.BuyAmount.String(),
		t.Price.String(),
		string(t.Type),
		t.Fee.String(),
	}
}
