package binance

import (
	"strings"
	"testing"
)

func TestParamsEncodePreservesInsertionOrder(t *testing.T) {
	p := NewParams().
		Set("size", "100").
		Set("timestamp", "1700000000000").
		Set("startTime", "1699000000000").
		Set("endTime", "1700000000000")

	got := p.Encode()
	want := "size=100&timestamp=1700000000000&startTime=1699000000000&endTime=1700000000000"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestSignKnownVector(t *testing.T) {
	// Example from the exchange's API documentation: signing the canonical
	// order query with the documented test secret.
	p := NewParams().
		Set("symbol", "LTCBTC").
		Set("side", "BUY").
		Set("type", "LIMIT").
		Set("timeInForce", "GTC").
		Set("quantity", "1").
		Set("price", "0.1").
		Set("recvWindow", "5000").
		Set("timestamp", "1499827319559")

	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	p.Sign(secret)

	query := p.Encode()
	wantSig := "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71"
	if !strings.HasSuffix(query, "&signature="+wantSig) {
		t.Errorf("signed query = %q, want signature %s", query, wantSig)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	build := func() string {
		return NewParams().
			Set("timestamp", "1700000000000").
			Set("startTime", "1").
			Sign("secret").
			Encode()
	}
	if build() != build() {
		t.Error("signing identical parameters must produce identical queries")
	}
}
