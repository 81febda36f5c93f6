package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bintrack/internal/binance"
)

// PriceSource supplies the current USDT average price for an asset.
type PriceSource interface {
	AssetAvgPrice(ctx context.Context, asset string) (decimal.Decimal, error)
}

// QuoteAPI is the slice of the exchange client the PriceService consumes.
type QuoteAPI interface {
	AvgPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// PriceService resolves live prices through the /api rate-limit domain.
// Each lookup is a single-entry batch: submit, flush immediately, take the
// only result.
type PriceService struct {
	client QuoteAPI
	api    *binance.Limiter[decimal.Decimal]
}

var _ PriceSource = (*PriceService)(nil)

// NewPriceService creates a PriceService with its own /api weight budget.
func NewPriceService(client QuoteAPI) *PriceService {
	return &PriceService{
		client: client,
		api:    binance.NewLimiter[decimal.Decimal](binance.APIRateLimit, binance.RateWindow),
	}
}

// AssetAvgPrice returns the exchange's current average price for the
// asset's USDT pair.
func (p *PriceService) AssetAvgPrice(ctx context.Context, asset string) (decimal.Decimal, error) {
	symbol := asset + "USDT"

	err := p.api.Submit(ctx, binance.AvgPriceWeightIP,
		func(ctx context.Context) (decimal.Decimal, error) {
			return p.client.AvgPrice(ctx, symbol)
		})
	if err != nil {
		return decimal.Zero, err
	}

	// Drain unconditionally: a failed flush still buffers the task's
	// zero-value slot, which must not leak into the next lookup.
	flushErr := p.api.Flush(ctx)
	results := p.api.Drain()
	if flushErr != nil {
		return decimal.Zero, flushErr
	}
	if len(results) == 0 {
		return decimal.Zero, fmt.Errorf("no price result for %s", symbol)
	}
	return results[0], nil
}
