package port

import (
	"context"

	"github.com/shopspring/decimal"

	"wallet_engine/internal/domain/entity"
)

// LedgerGateway is the home-ledger RPC surface the engine consumes.
type LedgerGateway interface {
	// NativeBalance returns the spendable native balance in native units.
	NativeBalance(ctx context.Context, address string) (decimal.Decimal, error)

	// TrustLines returns every issued-currency line held by the address.
	TrustLines(ctx context.Context, address string) ([]entity.TrustLine, error)
}

// IndexerGateway is the external ledger-indexing service: NFT ownership and
// marketplace activity. Every method may fail at any time; callers degrade to
// "no data" instead of propagating the failure.
type IndexerGateway interface {
	NFTsByOwner(ctx context.Context, address string) ([]entity.NftHolding, error)

	// CollectionStats returns the floor-price entries the indexer tracks for a
	// collection, open-market and private-sale alike, in either denomination shape.
	CollectionStats(ctx context.Context, issuer string, taxon uint32) ([]entity.LedgerAmount, error)

	RecentSales(ctx context.Context, issuer string, taxon uint32, limit int) ([]entity.LedgerAmount, error)

	OpenOffers(ctx context.Context, issuer string, taxon uint32, limit int) ([]entity.LedgerAmount, error)
}

// MarketDataGateway is the external DEX market-data service.
type MarketDataGateway interface {
	SearchPairs(ctx context.Context, query string) ([]entity.MarketPair, error)
}

// TokenRegistryGateway is the internal token registry with curated prices.
type TokenRegistryGateway interface {
	Lookup(ctx context.Context, symbol string) ([]entity.RegistryToken, error)
}

// EVMGateway serves native balances for linked hex-chain wallets.
type EVMGateway interface {
	NativeBalance(ctx context.Context, chain entity.Chain, address string) (decimal.Decimal, error)
}

// SwapGateway converts an entire issued-currency balance into the native
// currency on behalf of the session's cached signing seed.
type SwapGateway interface {
	SellEntireBalance(ctx context.Context, signingSeed, currency, issuer string, amount decimal.Decimal, slippagePct float64) (entity.TxResult, error)
}

// TrustlineGateway submits the trustline-removal transaction.
type TrustlineGateway interface {
	RemoveTrustline(ctx context.Context, signingSeed, address, currency, issuer string) (entity.TxResult, error)
}
