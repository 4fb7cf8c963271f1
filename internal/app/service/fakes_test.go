package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// fakeSessionProvider serves a fixed session set.
type fakeSessionProvider struct {
	sessions map[string]port.Session
}

func (f *fakeSessionProvider) Lookup(handle string) (*port.Session, bool) {
	s, ok := f.sessions[handle]
	if !ok {
		return nil, false
	}
	return &s, true
}

// fakeWalletStore serves fixed address lists and can be told to fail.
type fakeWalletStore struct {
	addrs []entity.Address
	err   error
	calls int
}

func (f *fakeWalletStore) LinkedWallets(ctx context.Context, handle string) ([]entity.Address, error) {
	f.calls++
	return f.addrs, f.err
}

func (f *fakeWalletStore) ProfileAddresses(ctx context.Context, handle string) ([]entity.Address, error) {
	f.calls++
	return f.addrs, f.err
}

// fakeLedger serves canned native balances and trustlines.
type fakeLedger struct {
	native    map[string]decimal.Decimal
	nativeErr error
	lines     map[string][]entity.TrustLine
	linesErr  error
}

func (f *fakeLedger) NativeBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if f.nativeErr != nil {
		return decimal.Zero, f.nativeErr
	}
	return f.native[address], nil
}

func (f *fakeLedger) TrustLines(ctx context.Context, address string) ([]entity.TrustLine, error) {
	if f.linesErr != nil {
		return nil, f.linesErr
	}
	return f.lines[address], nil
}

// fakeIndexer serves canned NFT and marketplace data.
type fakeIndexer struct {
	nfts    map[string][]entity.NftHolding
	nftsErr error

	stats    []entity.LedgerAmount
	statsErr error
	sales    []entity.LedgerAmount
	salesErr error
	offers   []entity.LedgerAmount
	offerErr error

	mu         sync.Mutex
	floorCalls map[string]int
}

func (f *fakeIndexer) NFTsByOwner(ctx context.Context, address string) ([]entity.NftHolding, error) {
	if f.nftsErr != nil {
		return nil, f.nftsErr
	}
	return f.nfts[address], nil
}

func (f *fakeIndexer) CollectionStats(ctx context.Context, issuer string, taxon uint32) ([]entity.LedgerAmount, error) {
	f.recordFloorCall(issuer, taxon)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeIndexer) RecentSales(ctx context.Context, issuer string, taxon uint32, limit int) ([]entity.LedgerAmount, error) {
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return f.sales, nil
}

func (f *fakeIndexer) OpenOffers(ctx context.Context, issuer string, taxon uint32, limit int) ([]entity.LedgerAmount, error) {
	if f.offerErr != nil {
		return nil, f.offerErr
	}
	return f.offers, nil
}

func (f *fakeIndexer) recordFloorCall(issuer string, taxon uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.floorCalls == nil {
		f.floorCalls = make(map[string]int)
	}
	f.floorCalls[entity.CollectionKey(issuer, taxon)]++
}

// fakeMarket maps each query string to a canned pair list.
type fakeMarket struct {
	pairs map[string][]entity.MarketPair
	err   error
}

func (f *fakeMarket) SearchPairs(ctx context.Context, query string) ([]entity.MarketPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pairs[query], nil
}

// fakeRegistry maps each symbol to a canned token list.
type fakeRegistry struct {
	tokens map[string][]entity.RegistryToken
	err    error
}

func (f *fakeRegistry) Lookup(ctx context.Context, symbol string) ([]entity.RegistryToken, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tokens[symbol], nil
}

// fakeEVM serves one balance for every address.
type fakeEVM struct {
	balance decimal.Decimal
	err     error
}

func (f *fakeEVM) NativeBalance(ctx context.Context, chain entity.Chain, address string) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.balance, nil
}

// fakeSwap records the sell call and returns a canned result.
type fakeSwap struct {
	result entity.TxResult
	err    error

	calls        int
	lastAmount   decimal.Decimal
	lastSlippage float64
}

func (f *fakeSwap) SellEntireBalance(ctx context.Context, seed, currency, issuer string, amount decimal.Decimal, slippagePct float64) (entity.TxResult, error) {
	f.calls++
	f.lastAmount = amount
	f.lastSlippage = slippagePct
	if f.err != nil {
		return entity.TxResult{}, f.err
	}
	return f.result, nil
}

// fakeTrustlines records the removal call and returns a canned result.
type fakeTrustlines struct {
	result entity.TxResult
	err    error
	calls  int
}

func (f *fakeTrustlines) RemoveTrustline(ctx context.Context, seed, address, currency, issuer string) (entity.TxResult, error) {
	f.calls++
	if f.err != nil {
		return entity.TxResult{}, f.err
	}
	return f.result, nil
}

// fakeAggregator serves canned per-address assets and counts calls per address.
type fakeAggregator struct {
	mu     sync.Mutex
	assets map[string]entity.AddressAssets
	calls  map[string]int
}

func (f *fakeAggregator) FetchAddressAssets(ctx context.Context, addr entity.Address) entity.AddressAssets {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[addr.Key()]++
	f.mu.Unlock()

	out, ok := f.assets[addr.Key()]
	if !ok {
		return entity.AddressAssets{Address: addr}
	}
	return out
}

// fakePrices resolves from a fixed asset-key table.
type fakePrices struct {
	prices      map[string]decimal.Decimal
	nativePrice decimal.Decimal
	nativeKnown bool

	mu          sync.Mutex
	nativeCalls int
}

func (f *fakePrices) ResolvePrice(ctx context.Context, chain entity.Chain, symbol, issuer string) (decimal.Decimal, entity.PriceStatus) {
	key := string(chain) + "|" + symbol + "|" + issuer
	if p, ok := f.prices[key]; ok {
		return p, entity.PriceAvailable
	}
	return decimal.Zero, entity.PriceUnknown
}

func (f *fakePrices) ResolveNativePrice(ctx context.Context) (decimal.Decimal, entity.PriceStatus) {
	f.mu.Lock()
	f.nativeCalls++
	f.mu.Unlock()
	if !f.nativeKnown {
		return decimal.Zero, entity.PriceUnknown
	}
	return f.nativePrice, entity.PriceAvailable
}

// fakeFloors resolves from a fixed collection-key table and counts calls.
type fakeFloors struct {
	floors map[string]decimal.Decimal

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeFloors) ResolveFloor(ctx context.Context, issuer string, taxon uint32) (decimal.Decimal, entity.FloorStatus) {
	key := entity.CollectionKey(issuer, taxon)
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[key]++
	f.mu.Unlock()

	if v, ok := f.floors[key]; ok {
		return v, entity.FloorAvailable
	}
	return decimal.Zero, entity.FloorNotAvailable
}
