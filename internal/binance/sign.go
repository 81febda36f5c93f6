package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Params is an insertion-ordered list of query parameters. The upstream API
// verifies the HMAC signature against the query string exactly as it was
// sent, so parameter order must survive from construction through signing to
// the request URL; a map would not do.
type Params struct {
	keys   []string
	values []string
}

// NewParams returns an empty parameter list.
func NewParams() *Params {
	return &Params{}
}

// Set appends a parameter, preserving insertion order. It returns the
// receiver so calls can be chained.
func (p *Params) Set(key, value string) *Params {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return p
}

// Encode renders the parameters as a query string in insertion order.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, key := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[i]))
	}
	return b.String()
}

// Sign appends a "signature" parameter: the hex HMAC-SHA256 of the encoded
// query string keyed with the API secret. It must be the last parameter
// added before the request is built.
func (p *Params) Sign(secret string) *Params {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(p.Encode()))
	return p.Set("signature", hex.EncodeToString(mac.Sum(nil)))
}
