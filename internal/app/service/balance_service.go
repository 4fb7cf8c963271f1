package service

import (
	"context"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/pkg/metrics"
	"wallet_engine/internal/pkg/utils"
)

// balanceAggregator fetches everything one address holds. Each upstream is
// queried independently and each failure is recorded and degraded to empty
// data, so one dark gateway never aborts the portfolio computation.
type balanceAggregator struct {
	ledger  port.LedgerGateway
	indexer port.IndexerGateway
	evm     port.EVMGateway
	logger  port.Logger

	// evmNativeSymbols maps a configured hex chain to its native coin symbol.
	evmNativeSymbols map[entity.Chain]string
}

// NewBalanceAggregator creates the aggregator. evm may be nil when no hex
// chains are configured.
func NewBalanceAggregator(
	ledger port.LedgerGateway,
	indexer port.IndexerGateway,
	evm port.EVMGateway,
	l port.Logger,
	evmNativeSymbols map[entity.Chain]string,
) port.BalanceAggregator {
	return &balanceAggregator{
		ledger:           ledger,
		indexer:          indexer,
		evm:              evm,
		logger:           l,
		evmNativeSymbols: evmNativeSymbols,
	}
}

// FetchAddressAssets implements port.BalanceAggregator.
func (a *balanceAggregator) FetchAddressAssets(ctx context.Context, addr entity.Address) entity.AddressAssets {
	if addr.IsLedgerNative() {
		return a.fetchLedgerAssets(ctx, addr)
	}
	return a.fetchEVMAssets(ctx, addr)
}

func (a *balanceAggregator) fetchLedgerAssets(ctx context.Context, addr entity.Address) entity.AddressAssets {
	out := entity.AddressAssets{Address: addr}

	native, err := a.ledger.NativeBalance(ctx, addr.Value)
	if err != nil {
		metrics.ObserveUpstreamFailure("ledger_rpc")
		a.logger.Warn("Native balance lookup failed", "address", addr.Value, "error", err)
		out.Errors = append(out.Errors, entity.AssetError{
			Address: addr.Value, Chain: addr.Chain, Stage: "native_balance", Message: err.Error(),
		})
	} else {
		out.NativeBalance = native
	}

	lines, err := a.ledger.TrustLines(ctx, addr.Value)
	if err != nil {
		metrics.ObserveUpstreamFailure("ledger_rpc")
		a.logger.Warn("Trustline lookup failed", "address", addr.Value, "error", err)
		out.Errors = append(out.Errors, entity.AssetError{
			Address: addr.Value, Chain: addr.Chain, Stage: "trust_lines", Message: err.Error(),
		})
	}
	for _, line := range lines {
		if !line.Balance.IsPositive() {
			continue
		}
		out.Tokens = append(out.Tokens, entity.TokenBalance{
			Chain:       addr.Chain,
			Symbol:      utils.DecodeCurrencyCode(line.Currency),
			Issuer:      line.Issuer,
			Balance:     line.Balance,
			PriceStatus: entity.PriceUnknown,
		})
	}

	nfts, err := a.indexer.NFTsByOwner(ctx, addr.Value)
	if err != nil {
		metrics.ObserveUpstreamFailure("indexer")
		a.logger.Warn("NFT ownership lookup failed, address contributes no NFTs", "address", addr.Value, "error", err)
		out.Errors = append(out.Errors, entity.AssetError{
			Address: addr.Value, Chain: addr.Chain, Stage: "nfts_by_owner", Message: err.Error(),
		})
	} else {
		out.Nfts = nfts
	}

	return out
}

// fetchEVMAssets pulls the native coin balance of a linked hex-chain wallet.
// Issued-token discovery is out of reach without a per-chain token list, so
// linked wallets contribute their native coin only.
func (a *balanceAggregator) fetchEVMAssets(ctx context.Context, addr entity.Address) entity.AddressAssets {
	out := entity.AddressAssets{Address: addr}
	if a.evm == nil {
		a.logger.Warn("No EVM gateway configured, skipping hex-chain address", "chain", addr.Chain, "address", addr.Value)
		return out
	}

	balance, err := a.evm.NativeBalance(ctx, addr.Chain, addr.Value)
	if err != nil {
		metrics.ObserveUpstreamFailure("evm_rpc")
		a.logger.Warn("EVM native balance lookup failed", "chain", addr.Chain, "address", addr.Value, "error", err)
		out.Errors = append(out.Errors, entity.AssetError{
			Address: addr.Value, Chain: addr.Chain, Stage: "native_balance", Message: err.Error(),
		})
		return out
	}

	if balance.IsPositive() {
		symbol := a.evmNativeSymbols[addr.Chain]
		if symbol == "" {
			symbol = "ETH"
		}
		out.Tokens = append(out.Tokens, entity.TokenBalance{
			Chain:       addr.Chain,
			Symbol:      symbol,
			Balance:     balance,
			PriceStatus: entity.PriceUnknown,
		})
	}
	return out
}
