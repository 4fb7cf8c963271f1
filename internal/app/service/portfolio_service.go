package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/pkg/metrics"
)

// PortfolioServiceImpl implements port.PortfolioService. One request fans out
// to the balance aggregator per address, then to the price and floor
// resolvers per distinct asset, and reduces everything into a single USD
// total. Branches are independent: one failing address or asset degrades to
// "no data" and never cancels its siblings.
type PortfolioServiceImpl struct {
	sessions      port.SessionProvider
	registry      port.AddressRegistry
	aggregator    port.BalanceAggregator
	prices        port.TokenPriceResolver
	floors        port.FloorPriceResolver
	logger        port.Logger
	nativeSymbol  string
	maxConcurrent int
}

// NewPortfolioService creates a new instance of PortfolioServiceImpl.
func NewPortfolioService(
	sessions port.SessionProvider,
	registry port.AddressRegistry,
	aggregator port.BalanceAggregator,
	prices port.TokenPriceResolver,
	floors port.FloorPriceResolver,
	l port.Logger,
	nativeSymbol string,
	maxConcurrent int,
) port.PortfolioService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &PortfolioServiceImpl{
		sessions:      sessions,
		registry:      registry,
		aggregator:    aggregator,
		prices:        prices,
		floors:        floors,
		logger:        l,
		nativeSymbol:  nativeSymbol,
		maxConcurrent: maxConcurrent,
	}
}

// GetPortfolioSnapshot implements port.PortfolioService. The snapshot is
// recomputed from upstream state on every call; the only hard error is a
// missing session. Everything else is reported in-band on the snapshot.
func (s *PortfolioServiceImpl) GetPortfolioSnapshot(ctx context.Context, userHandle string) (*entity.PortfolioSnapshot, error) {
	start := time.Now()
	defer func() { metrics.SnapshotDuration.Observe(time.Since(start).Seconds()) }()

	session, ok := s.sessions.Lookup(userHandle)
	if !ok {
		return nil, ErrNoSession
	}

	addrs := s.registry.CollectAddresses(ctx, session)
	s.logger.Debug("Computing portfolio snapshot", "handle", userHandle, "addresses", len(addrs))

	snap := &entity.PortfolioSnapshot{
		UserHandle: userHandle,
		TotalUSD:   decimal.Zero,
		Timestamp:  time.Now().UTC(),
	}

	assets := s.fetchAllAddressAssets(ctx, addrs)

	nativeBalance := decimal.Zero
	tokensByKey := make(map[string]*entity.TokenBalance)
	groupsByKey := make(map[string]*entity.CollectionGroup)
	for _, aa := range assets {
		snap.Errors = append(snap.Errors, aa.Errors...)
		nativeBalance = nativeBalance.Add(aa.NativeBalance)

		for _, tb := range aa.Tokens {
			key := tb.AssetKey()
			if existing, found := tokensByKey[key]; found {
				existing.Balance = existing.Balance.Add(tb.Balance)
			} else {
				merged := tb
				tokensByKey[key] = &merged
			}
		}
		for _, nft := range aa.Nfts {
			key := nft.CollectionKey()
			if group, found := groupsByKey[key]; found {
				group.Count++
			} else {
				groupsByKey[key] = &entity.CollectionGroup{
					Issuer:      nft.Issuer,
					Taxon:       nft.Taxon,
					Count:       1,
					FloorStatus: entity.FloorNotAvailable,
				}
			}
		}
	}

	// The native price backs both the native balance position and every NFT
	// collection valuation, so it is resolved exactly once per request.
	nativePrice, nativeStatus := s.prices.ResolveNativePrice(ctx)
	snap.NativePriceUSD = nativePrice
	snap.NativePriceStatus = nativeStatus

	if nativeBalance.IsPositive() {
		native := &entity.TokenBalance{
			Chain:       entity.ChainXRPL,
			Symbol:      s.nativeSymbol,
			Balance:     nativeBalance,
			PriceStatus: entity.PriceUnknown,
		}
		tokensByKey[native.AssetKey()] = native
	}

	s.priceAllTokens(ctx, tokensByKey, nativePrice, nativeStatus)
	s.resolveAllFloors(ctx, groupsByKey, nativePrice, nativeStatus)

	snap.Tokens = sortedTokens(tokensByKey)
	snap.Collections = sortedGroups(groupsByKey)

	total := decimal.Zero
	for _, tb := range snap.Tokens {
		if tb.PriceStatus == entity.PriceAvailable {
			total = total.Add(tb.ValueUSD)
		} else {
			snap.Incomplete = true
		}
	}
	for _, group := range snap.Collections {
		if group.FloorStatus == entity.FloorAvailable && nativeStatus == entity.PriceAvailable {
			total = total.Add(group.ValueUSD)
		} else {
			snap.Incomplete = true
		}
	}
	if len(snap.Errors) > 0 {
		snap.Incomplete = true
	}
	snap.TotalUSD = total

	s.logger.Info("Portfolio snapshot computed",
		"handle", userHandle,
		"totalUsd", snap.TotalUSD.String(),
		"tokens", len(snap.Tokens),
		"collections", len(snap.Collections),
		"incomplete", snap.Incomplete)
	return snap, nil
}

// fetchAllAddressAssets runs the balance aggregator concurrently, one branch
// per address, each writing into its own slot.
func (s *PortfolioServiceImpl) fetchAllAddressAssets(ctx context.Context, addrs []entity.Address) []entity.AddressAssets {
	assets := make([]entity.AddressAssets, len(addrs))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)
	for i, addr := range addrs {
		g.Go(func() error {
			assets[i] = s.aggregator.FetchAddressAssets(ctx, addr)
			return nil
		})
	}
	_ = g.Wait()
	return assets
}

// priceAllTokens resolves each distinct asset once, concurrently. The native
// position takes the already-resolved native price instead of re-querying.
func (s *PortfolioServiceImpl) priceAllTokens(
	ctx context.Context,
	tokensByKey map[string]*entity.TokenBalance,
	nativePrice decimal.Decimal,
	nativeStatus entity.PriceStatus,
) {
	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)
	for _, tb := range tokensByKey {
		g.Go(func() error {
			var price decimal.Decimal
			var status entity.PriceStatus
			if tb.Chain == entity.ChainXRPL && tb.Issuer == "" && strings.EqualFold(tb.Symbol, s.nativeSymbol) {
				price, status = nativePrice, nativeStatus
			} else {
				price, status = s.prices.ResolvePrice(ctx, tb.Chain, tb.Symbol, tb.Issuer)
			}
			tb.PriceStatus = status
			if status == entity.PriceAvailable {
				tb.PriceUSD = price
				tb.ValueUSD = tb.Balance.Mul(price)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// resolveAllFloors resolves each distinct collection exactly once,
// concurrently, no matter how many NFTs the group holds.
func (s *PortfolioServiceImpl) resolveAllFloors(
	ctx context.Context,
	groupsByKey map[string]*entity.CollectionGroup,
	nativePrice decimal.Decimal,
	nativeStatus entity.PriceStatus,
) {
	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)
	for _, group := range groupsByKey {
		g.Go(func() error {
			floor, status := s.floors.ResolveFloor(ctx, group.Issuer, group.Taxon)
			group.FloorStatus = status
			if status != entity.FloorAvailable {
				return nil
			}
			group.FloorPrice = floor
			if nativeStatus == entity.PriceAvailable {
				group.ValueUSD = floor.Mul(decimal.NewFromInt(int64(group.Count))).Mul(nativePrice)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func sortedTokens(tokensByKey map[string]*entity.TokenBalance) []entity.TokenBalance {
	out := make([]entity.TokenBalance, 0, len(tokensByKey))
	for _, tb := range tokensByKey {
		out = append(out, *tb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetKey() < out[j].AssetKey() })
	return out
}

func sortedGroups(groupsByKey map[string]*entity.CollectionGroup) []entity.CollectionGroup {
	out := make([]entity.CollectionGroup, 0, len(groupsByKey))
	for _, group := range groupsByKey {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
