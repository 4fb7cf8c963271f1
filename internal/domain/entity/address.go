package entity

// Chain identifies the ledger an address lives on. The home ledger is XRPL;
// any other value names an EVM network from the configuration (e.g. "ethereum").
type Chain string

// ChainXRPL is the home ledger. Its addresses are base58 and case-sensitive,
// so they must never be case-normalized.
const ChainXRPL Chain = "xrpl"

// Address is a single chain-qualified account identifier. Immutable once built.
type Address struct {
	Chain Chain  `json:"chain"`
	Value string `json:"value"`
}

// Key returns the deduplication key for the address.
func (a Address) Key() string {
	return string(a.Chain) + ":" + a.Value
}

// IsLedgerNative reports whether the address belongs to the home ledger.
func (a Address) IsLedgerNative() bool {
	return a.Chain == ChainXRPL
}
