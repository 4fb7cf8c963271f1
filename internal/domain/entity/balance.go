package entity

import "github.com/shopspring/decimal"

// PriceStatus distinguishes a resolved USD price from an exhausted lookup
// cascade. "No data" is never encoded as a zero price.
type PriceStatus string

const (
	// PriceAvailable means the cascade produced a strictly positive USD price.
	PriceAvailable PriceStatus = "available"
	// PriceUnknown means every price source came up empty. The asset
	// contributes zero to any total and the snapshot is flagged incomplete.
	PriceUnknown PriceStatus = "unknown"
)

// TokenBalance is one fungible asset position, aggregated across all of the
// user's addresses on the same chain. Issuer is empty for native assets.
type TokenBalance struct {
	Chain       Chain           `json:"chain"`
	Symbol      string          `json:"symbol"`
	Issuer      string          `json:"issuer,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	PriceUSD    decimal.Decimal `json:"priceUsd"`
	PriceStatus PriceStatus     `json:"priceStatus"`
	ValueUSD    decimal.Decimal `json:"valueUsd"`
}

// AssetKey returns the deduplication key used to price each distinct
// (chain, symbol, issuer) triple exactly once per request.
func (b TokenBalance) AssetKey() string {
	return string(b.Chain) + "|" + b.Symbol + "|" + b.Issuer
}

// TrustLine is a raw ledger line for an issued currency as reported by the
// ledger RPC gateway. Currency may be a 40-hex encoded code.
type TrustLine struct {
	Currency string          `json:"currency"`
	Issuer   string          `json:"issuer"`
	Balance  decimal.Decimal `json:"balance"`
	Limit    decimal.Decimal `json:"limit"`
}
