package entity

import "github.com/shopspring/decimal"

// MarketPair is one trading pair returned by the external market-data gateway.
type MarketPair struct {
	ChainID      string
	BaseSymbol   string
	BaseAddress  string
	QuoteSymbol  string
	QuoteAddress string
	PriceUSD     decimal.Decimal
	LiquidityUSD decimal.Decimal
}

// RegistryToken is one entry from the internal token registry.
type RegistryToken struct {
	Symbol   string
	Issuer   string
	PriceUSD decimal.Decimal
}

// TxResult is the outcome of a submitted ledger transaction.
type TxResult struct {
	Success bool
	TxHash  string
	Message string
}
