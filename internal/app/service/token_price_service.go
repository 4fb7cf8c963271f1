package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/pkg/metrics"
)

// tokenPriceResolver resolves USD prices through the ordered source cascade:
// market pairs keyed by symbol, market pairs keyed by issuer address, then the
// internal token registry. Every step failure means "no result from this
// step"; the cascade only reports unknown once all sources are exhausted.
type tokenPriceResolver struct {
	market   port.MarketDataGateway
	registry port.TokenRegistryGateway
	logger   port.Logger

	// marketChainIDs maps an engine chain to the market-data gateway's chain
	// discriminator, e.g. xrpl -> "xrpl", "ethereum" -> "ethereum".
	marketChainIDs map[entity.Chain]string
	nativeSymbol   string
}

// NewTokenPriceResolver creates the resolver. nativeSymbol is the home
// ledger's native currency symbol used by ResolveNativePrice.
func NewTokenPriceResolver(
	market port.MarketDataGateway,
	registry port.TokenRegistryGateway,
	l port.Logger,
	marketChainIDs map[entity.Chain]string,
	nativeSymbol string,
) port.TokenPriceResolver {
	return &tokenPriceResolver{
		market:         market,
		registry:       registry,
		logger:         l,
		marketChainIDs: marketChainIDs,
		nativeSymbol:   nativeSymbol,
	}
}

// ResolvePrice implements port.TokenPriceResolver.
func (r *tokenPriceResolver) ResolvePrice(ctx context.Context, chain entity.Chain, symbol, issuer string) (decimal.Decimal, entity.PriceStatus) {
	steps := []cascadeStep{
		{name: "market_pairs_by_symbol", run: func(ctx context.Context) (decimal.Decimal, bool) {
			return r.pairPrice(ctx, chain, symbol, symbol)
		}},
	}
	if issuer != "" {
		steps = append(steps, cascadeStep{name: "market_pairs_by_issuer", run: func(ctx context.Context) (decimal.Decimal, bool) {
			return r.pairPriceByIssuer(ctx, chain, issuer)
		}})
	}
	if chain == entity.ChainXRPL && r.registry != nil {
		steps = append(steps, cascadeStep{name: "token_registry", run: func(ctx context.Context) (decimal.Decimal, bool) {
			return r.registryPrice(ctx, symbol, issuer)
		}})
	}

	price, ok := resolveCascade(ctx, r.logger, "token_price", symbol, steps)
	if !ok {
		return decimal.Zero, entity.PriceUnknown
	}
	return price, entity.PriceAvailable
}

// ResolveNativePrice implements port.TokenPriceResolver. The native currency
// is priced through a single dedicated market lookup, once per request.
func (r *tokenPriceResolver) ResolveNativePrice(ctx context.Context) (decimal.Decimal, entity.PriceStatus) {
	price, ok := resolveCascade(ctx, r.logger, "native_price", r.nativeSymbol, []cascadeStep{
		{name: "market_pairs_by_symbol", run: func(ctx context.Context) (decimal.Decimal, bool) {
			return r.pairPrice(ctx, entity.ChainXRPL, r.nativeSymbol, r.nativeSymbol)
		}},
	})
	if !ok {
		return decimal.Zero, entity.PriceUnknown
	}
	return price, entity.PriceAvailable
}

// pairPrice queries the market gateway and returns the first positive USD
// price among pairs on the requested chain with the symbol on either side.
func (r *tokenPriceResolver) pairPrice(ctx context.Context, chain entity.Chain, query, symbol string) (decimal.Decimal, bool) {
	pairs, err := r.market.SearchPairs(ctx, query)
	if err != nil {
		metrics.ObserveUpstreamFailure("market_data")
		r.logger.Warn("Market-data pair search failed", "query", query, "error", err)
		return decimal.Zero, false
	}

	chainID := r.marketChainIDs[chain]
	for _, pair := range pairs {
		if chainID != "" && pair.ChainID != chainID {
			continue
		}
		if !strings.EqualFold(pair.BaseSymbol, symbol) && !strings.EqualFold(pair.QuoteSymbol, symbol) {
			continue
		}
		if pair.PriceUSD.IsPositive() {
			return pair.PriceUSD, true
		}
	}
	return decimal.Zero, false
}

// pairPriceByIssuer repeats the market query keyed by the issuer address.
func (r *tokenPriceResolver) pairPriceByIssuer(ctx context.Context, chain entity.Chain, issuer string) (decimal.Decimal, bool) {
	pairs, err := r.market.SearchPairs(ctx, issuer)
	if err != nil {
		metrics.ObserveUpstreamFailure("market_data")
		r.logger.Warn("Market-data issuer search failed", "issuer", issuer, "error", err)
		return decimal.Zero, false
	}

	chainID := r.marketChainIDs[chain]
	for _, pair := range pairs {
		if chainID != "" && pair.ChainID != chainID {
			continue
		}
		if pair.PriceUSD.IsPositive() {
			return pair.PriceUSD, true
		}
	}
	return decimal.Zero, false
}

// registryPrice looks up the exact (symbol, issuer) entry in the internal
// token registry and uses its stored price if present.
func (r *tokenPriceResolver) registryPrice(ctx context.Context, symbol, issuer string) (decimal.Decimal, bool) {
	tokens, err := r.registry.Lookup(ctx, symbol)
	if err != nil {
		metrics.ObserveUpstreamFailure("token_registry")
		r.logger.Warn("Token registry lookup failed", "symbol", symbol, "error", err)
		return decimal.Zero, false
	}

	for _, t := range tokens {
		if !strings.EqualFold(t.Symbol, symbol) {
			continue
		}
		if issuer != "" && t.Issuer != issuer {
			continue
		}
		if t.PriceUSD.IsPositive() {
			return t.PriceUSD, true
		}
	}
	return decimal.Zero, false
}
