package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeQuoteAPI struct {
	prices map[string]decimal.Decimal
	calls  []string
}

func (f *fakeQuoteAPI) AvgPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	f.calls = append(f.calls, symbol)
	price, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown symbol %s", symbol)
	}
	return price, nil
}

func TestAssetAvgPriceAppendsQuoteCurrency(t *testing.T) {
	api := &fakeQuoteAPI{prices: map[string]decimal.Decimal{
		"BTCUSDT": mustDecimal("65000.5"),
	}}
	svc := NewPriceService(api)

	price, err := svc.AssetAvgPrice(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("AssetAvgPrice: %v", err)
	}
	if !price.Equal(mustDecimal("65000.5")) {
		t.Errorf("price = %s, want 65000.5", price)
	}
	if len(api.calls) != 1 || api.calls[0] != "BTCUSDT" {
		t.Errorf("calls = %v, want [BTCUSDT]", api.calls)
	}
}

func TestAssetAvgPriceSurfacesLookupError(t *testing.T) {
	svc := NewPriceService(&fakeQuoteAPI{})

	if _, err := svc.AssetAvgPrice(context.Background(), "BTC"); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestAssetAvgPriceRecoversAfterFailedLookup(t *testing.T) {
	api := &fakeQuoteAPI{prices: map[string]decimal.Decimal{
		"ETHUSDT": mustDecimal("3200"),
	}}
	svc := NewPriceService(api)

	if _, err := svc.AssetAvgPrice(context.Background(), "BTC"); err == nil {
		t.Fatal("expected error for unknown symbol")
	}

	// The failed lookup's zero-value slot must not shift the next result.
	price, err := svc.AssetAvgPrice(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("AssetAvgPrice after failed lookup: %v", err)
	}
	if !price.Equal(mustDecimal("3200")) {
		t.Errorf("price after a prior failed lookup = %s, want 3200", price)
	}
}

func TestAssetAvgPriceSequentialLookups(t *testing.T) {
	api := &fakeQuoteAPI{prices: map[string]decimal.Decimal{
		"BTCUSDT": mustDecimal("65000"),
		"ETHUSDT": mustDecimal("3200"),
	}}
	svc := NewPriceService(api)

	for asset, want := range map[string]string{"BTC": "65000", "ETH": "3200"} {
		price, err := svc.AssetAvgPrice(context.Background(), asset)
		if err != nil {
			t.Fatalf("AssetAvgPrice(%s): %v", asset, err)
		}
		if !price.Equal(mustDecimal(want)) {
			t.Errorf("price for %s = %s, want %s", asset, price, want)
		}
	}
}
