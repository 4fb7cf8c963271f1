package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetError records a single recovered upstream failure. One address or one
// asset going dark never fails the whole portfolio computation; the failure is
// itemized here instead.
type AssetError struct {
	Address string `json:"address,omitempty"`
	Chain   Chain  `json:"chain,omitempty"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// AddressAssets is everything the balance aggregator found for one address.
// A totally unavailable upstream yields empty slices plus recorded errors.
type AddressAssets struct {
	Address       Address
	NativeBalance decimal.Decimal
	Tokens        []TokenBalance
	Nfts          []NftHolding
	Errors        []AssetError
}

// PortfolioSnapshot is the valuation result for one request. It is ephemeral:
// recomputed on every call, never cached inside the engine.
type PortfolioSnapshot struct {
	UserHandle        string            `json:"userHandle"`
	TotalUSD          decimal.Decimal   `json:"totalUsd"`
	NativePriceUSD    decimal.Decimal   `json:"nativePriceUsd"`
	NativePriceStatus PriceStatus       `json:"nativePriceStatus"`
	Tokens            []TokenBalance    `json:"tokens"`
	Collections       []CollectionGroup `json:"collections"`
	Errors            []AssetError      `json:"errors,omitempty"`
	// Incomplete marks the total as a best-effort lower bound: at least one
	// asset stayed unpriced or one upstream lookup failed.
	Incomplete bool      `json:"incomplete"`
	Timestamp  time.Time `json:"timestamp"`
}
