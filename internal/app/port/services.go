package port

import (
	"context"

	"github.com/shopspring/decimal"

	"wallet_engine/internal/domain/entity"
)

// AddressRegistry collects every address a user controls into a deduplicated set.
type AddressRegistry interface {
	CollectAddresses(ctx context.Context, session *Session) []entity.Address
}

// TokenPriceResolver resolves USD prices for fungible assets through the
// ordered source cascade. A zero price is never returned with PriceAvailable.
type TokenPriceResolver interface {
	ResolvePrice(ctx context.Context, chain entity.Chain, symbol, issuer string) (decimal.Decimal, entity.PriceStatus)

	// ResolveNativePrice is the dedicated once-per-request lookup for the home
	// ledger's native currency.
	ResolveNativePrice(ctx context.Context) (decimal.Decimal, entity.PriceStatus)
}

// FloorPriceResolver resolves an NFT collection floor in native units.
type FloorPriceResolver interface {
	ResolveFloor(ctx context.Context, issuer string, taxon uint32) (decimal.Decimal, entity.FloorStatus)
}

// BalanceAggregator fetches all holdings of a single address. It never fails:
// unavailable upstreams yield empty assets with recorded errors.
type BalanceAggregator interface {
	FetchAddressAssets(ctx context.Context, addr entity.Address) entity.AddressAssets
}

// PortfolioService computes a full portfolio snapshot for a user.
type PortfolioService interface {
	GetPortfolioSnapshot(ctx context.Context, userHandle string) (*entity.PortfolioSnapshot, error)
}

// TrustlineLifecycleService runs the sequential liquidate-then-remove workflow.
type TrustlineLifecycleService interface {
	SellAllAndRemoveTrustline(ctx context.Context, userHandle, currency, issuer string, slippagePct float64) entity.TrustlineLifecycleResult
}
