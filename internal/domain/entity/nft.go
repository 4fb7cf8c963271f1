package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FloorStatus distinguishes a resolved collection floor from an exhausted
// cascade. A missing floor is never reported as a zero price.
type FloorStatus string

const (
	// FloorAvailable means some marketplace source produced a positive floor.
	FloorAvailable FloorStatus = "available"
	// FloorNotAvailable means stats, recent sales and open offers all came up
	// empty. The collection contributes zero and the total is a lower bound.
	FloorNotAvailable FloorStatus = "not_available"
)

// NftHolding is a single NFT owned by one of the user's addresses.
type NftHolding struct {
	TokenID  string `json:"tokenId"`
	Issuer   string `json:"issuer"`
	Taxon    uint32 `json:"taxon"`
	ImageRef string `json:"imageRef,omitempty"`
}

// CollectionKey groups holdings minted by the same issuer under the same taxon.
func (n NftHolding) CollectionKey() string {
	return CollectionKey(n.Issuer, n.Taxon)
}

// CollectionKey builds the (issuer, taxon) grouping key.
func CollectionKey(issuer string, taxon uint32) string {
	return fmt.Sprintf("%s:%d", issuer, taxon)
}

// CollectionGroup is the per-collection aggregate over a user's NFT holdings.
// FloorPrice is denominated in the ledger's native unit; floor resolution runs
// once per distinct collection regardless of how many NFTs the group holds.
type CollectionGroup struct {
	Issuer      string          `json:"issuer"`
	Taxon       uint32          `json:"taxon"`
	Count       int             `json:"count"`
	FloorPrice  decimal.Decimal `json:"floorPrice"`
	FloorStatus FloorStatus     `json:"floorStatus"`
	ValueUSD    decimal.Decimal `json:"valueUsd"`
}

// Key returns the collection grouping key.
func (g CollectionGroup) Key() string {
	return CollectionKey(g.Issuer, g.Taxon)
}

// LedgerAmount is a price amount in whichever of the two shapes ledger-side
// APIs use: a smallest-unit integer string for native amounts (Raw), or a
// currency/value pair for issued amounts. Exactly one shape is populated.
type LedgerAmount struct {
	Raw      string `json:"raw,omitempty"`
	Currency string `json:"currency,omitempty"`
	Value    string `json:"value,omitempty"`
}
