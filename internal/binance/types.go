package binance

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"bintrack/internal/domain"
)

// statusSuccess marks a settled auto-invest purchase. Items in any other
// state (pending, failed, refunded) are population-filtered out, not
// errors.
const statusSuccess = "SUCCESS"

// apiError is the upstream failure envelope.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// autoInvestHistoryResponse is the success envelope of the auto-invest
// history endpoint.
type autoInvestHistoryResponse struct {
	List []AutoInvestItem `json:"list"`
}

// AutoInvestItem is one raw auto-invest purchase as reported upstream.
// Amount fields arrive as JSON strings and are decoded straight into exact
// decimals.
type AutoInvestItem struct {
	ID                  json.Number     `json:"id"`
	TransactionDateTime int64           `json:"transactionDateTime"`
	SourceAsset         string          `json:"sourceAsset"`
	SourceAssetAmount   decimal.Decimal `json:"sourceAssetAmount"`
	TargetAsset         string          `json:"targetAsset"`
	TargetAssetAmount   decimal.Decimal `json:"targetAssetAmount"`
	ExecutionPrice      decimal.Decimal `json:"executionPrice"`
	TransactionFee      decimal.Decimal `json:"transactionFee"`
	TransactionStatus   string          `json:"transactionStatus"`
}

// Settled reports whether the purchase completed successfully.
func (it *AutoInvestItem) Settled() bool {
	return it.TransactionStatus == statusSuccess
}

// Transaction normalizes the raw item into the canonical record shape. An
// auto-invest purchase always spends the source asset to accumulate the
// target asset, so it maps to a BUY.
func (it *AutoInvestItem) Transaction() domain.Transaction {
	return domain.Transaction{
		ExchangeID: it.ID.String(),
		Timestamp:  it.TransactionDateTime,
		SellAsset:  it.SourceAsset,
		SellAmount: it.SourceAssetAmount,
		BuyAsset:   it.TargetAsset,
		BuyAmount:  it.TargetAssetAmount,
		Price:      it.ExecutionPrice,
		Type:       domain.TxTypeBuy,
		Fee:        it.TransactionFee,
	}
}

// convertTradeFlowResponse is the success envelope of the convert
// trade-flow endpoint.
type convertTradeFlowResponse struct {
	List []ConvertItem `json:"list"`
}

// ConvertItem is one raw convert trade as reported upstream.
type ConvertItem struct {
	OrderID    json.Number     `json:"orderId"`
	CreateTime int64           `json:"createTime"`
	FromAsset  string          `json:"fromAsset"`
	FromAmount decimal.Decimal `json:"fromAmount"`
	ToAsset    string          `json:"toAsset"`
	ToAmount   decimal.Decimal `json:"toAmount"`
	Ratio      decimal.Decimal `json:"ratio"`
}

// Transaction normalizes the raw item into the canonical record shape.
// Convert trades carry no fee field; the fee defaults to zero.
func (it *ConvertItem) Transaction() domain.Transaction {
	return domain.Transaction{
		ExchangeID: it.OrderID.String(),
		Timestamp:  it.CreateTime,
		SellAsset:  it.FromAsset,
		SellAmount: it.FromAmount,
		BuyAsset:   it.ToAsset,
		BuyAmount:  it.ToAmount,
		Price:      it.Ratio,
		Type:       domain.TxTypeSell,
		Fee:        decimal.Zero,
	}
}

// avgPriceResponse is the success envelope of the average-price endpoint.
type avgPriceResponse struct {
	Mins  int             `json:"mins"`
	Price decimal.Decimal `json:"price"`
}
