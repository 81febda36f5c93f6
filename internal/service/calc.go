package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"bintrack/internal/domain"
	"bintrack/internal/store"
)

// AssetReport is the per-asset cost-basis summary. Decimal values marshal
// as quoted strings, preserving exact precision in the JSON output.
type AssetReport struct {
	Amount       decimal.Decimal `json:"asset_amount"`
	USDSpent     decimal.Decimal `json:"usd_spent"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	ProfitLoss   decimal.Decimal `json:"potential_profit_loss"`
}

// Calculator derives average cost and unrealized profit/loss per held asset
// from the persisted transaction set.
type Calculator struct {
	store  store.TransactionStore
	prices PriceSource
	log    *slog.Logger
}

// NewCalculator creates a Calculator reading from st and quoting through
// prices.
func NewCalculator(st store.TransactionStore, prices PriceSource, log *slog.Logger) *Calculator {
	return &Calculator{
		store:  st,
		prices: prices,
		log:    log.With("component", "calc"),
	}
}

// Report computes the cost-basis summary for every held asset. Quote
// currencies are excluded, as are assets with no remaining USD-funded
// position.
func (c *Calculator) Report(ctx context.Context) (map[string]AssetReport, error) {
	assets, err := c.store.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	txs, err := c.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	report := make(map[string]AssetReport)
	for _, asset := range assets {
		if isQuoteCurrency(asset) {
			continue
		}

		amount, spent := position(asset, txs)
		if amount.LessThanOrEqual(decimal.Zero) {
			// Fully divested, or never funded with a USD leg.
			continue
		}

		avgPrice := spent.Div(amount)

		currentPrice, err := c.prices.AssetAvgPrice(ctx, asset)
		if err != nil {
			return nil, fmt.Errorf("quoting %s: %w", asset, err)
		}

		report[asset] = AssetReport{
			Amount:       amount,
			USDSpent:     spent,
			AvgPrice:     avgPrice,
			CurrentPrice: currentPrice,
			ProfitLoss:   amount.Mul(currentPrice).Sub(amount.Mul(avgPrice)),
		}
	}

	return report, nil
}

// isQuoteCurrency reports whether the asset is a quote currency rather than
// a held position: any USD-denominated symbol, or EUR.
func isQuoteCurrency(asset string) bool {
	return strings.Contains(asset, "USD") || asset == "EUR"
}

// position scans all transactions touching the asset and accumulates the
// held amount and the USD spent on it. Only USD-denominated legs move the
// position: buys funded with USD add, sells into USD subtract. The sell
// side deliberately subtracts absolute proceeds (minus fee) rather than a
// proportional share of the cost basis, matching the established report
// semantics.
func position(asset string, txs []domain.Transaction) (amount, spent decimal.Decimal) {
	for i := range txs {
		tx := &txs[i]
		if tx.BuyAsset != asset && tx.SellAsset != asset {
			continue
		}

		if tx.Type == domain.TxTypeBuy && strings.Contains(tx.SellAsset, "USD") {
			amount = amount.Add(tx.BuyAmount)
			spent = spent.Add(tx.SellAmount.Add(tx.Fee))
		}
		if tx.Type == domain.TxTypeSell && strings.Contains(tx.BuyAsset, "USD") {
			amount = amount.Sub(tx.SellAmount)
			spent = spent.Sub(tx.BuyAmount.Sub(tx.Fee))
		}
	}
	return amount, spent
}
