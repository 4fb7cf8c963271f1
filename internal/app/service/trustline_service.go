package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/pkg/metrics"
	"wallet_engine/internal/pkg/utils"
)

// TrustlineServiceImpl implements port.TrustlineLifecycleService: the strictly
// sequential sell-entire-balance-then-remove-trustline workflow. The second
// phase runs only after the first unambiguously succeeded (or the pre-check
// confirmed a zero balance), and partial progress is always surfaced: a
// removal failure after a successful sell still reports the sell hash.
type TrustlineServiceImpl struct {
	sessions   port.SessionProvider
	ledger     port.LedgerGateway
	swap       port.SwapGateway
	trustlines port.TrustlineGateway
	logger     port.Logger

	// settleDelay is how long to wait after a sell before removal, so ledger
	// validators see the updated balance.
	settleDelay time.Duration
	// minSlippagePct floors the caller-supplied tolerance; thin balances need
	// an elevated slippage to liquidate at all.
	minSlippagePct float64
}

// NewTrustlineService creates a new instance of TrustlineServiceImpl.
func NewTrustlineService(
	sessions port.SessionProvider,
	ledger port.LedgerGateway,
	swap port.SwapGateway,
	trustlines port.TrustlineGateway,
	l port.Logger,
	settleDelay time.Duration,
	minSlippagePct float64,
) port.TrustlineLifecycleService {
	return &TrustlineServiceImpl{
		sessions:       sessions,
		ledger:         ledger,
		swap:           swap,
		trustlines:     trustlines,
		logger:         l,
		settleDelay:    settleDelay,
		minSlippagePct: minSlippagePct,
	}
}

// SellAllAndRemoveTrustline implements port.TrustlineLifecycleService.
func (s *TrustlineServiceImpl) SellAllAndRemoveTrustline(
	ctx context.Context,
	userHandle, currency, issuer string,
	slippagePct float64,
) entity.TrustlineLifecycleResult {
	result := entity.TrustlineLifecycleResult{Phase: entity.PhaseNone}
	defer func() {
		metrics.LifecycleRuns.WithLabelValues(string(result.Phase), fmt.Sprintf("%t", result.Failed())).Inc()
	}()

	// Precondition: a cached signing key must exist before any chain call.
	session, ok := s.sessions.Lookup(userHandle)
	if !ok {
		result.Err = ErrNoSession.Error()
		return result
	}
	if session.SigningSeed == "" {
		result.Err = ErrNoSigningKey.Error()
		return result
	}
	address := session.PrimaryAddress.Value

	line, found, err := s.findTrustLine(ctx, address, currency, issuer)
	if err != nil {
		result.Err = fmt.Sprintf("balance check failed: %v", err)
		return result
	}
	if !found {
		result.Err = "no trustline found"
		return result
	}

	if line.Balance.IsPositive() {
		slippage := slippagePct
		if slippage < s.minSlippagePct {
			slippage = s.minSlippagePct
		}
		s.logger.Info("Selling entire trustline balance",
			"address", address, "currency", currency, "issuer", issuer,
			"balance", line.Balance.String(), "slippagePct", slippage)

		sellRes, err := s.swap.SellEntireBalance(ctx, session.SigningSeed, currency, issuer, line.Balance, slippage)
		if err != nil {
			result.Err = fmt.Sprintf("sell failed: %v", err)
			return result
		}
		if !sellRes.Success {
			result.Err = fmt.Sprintf("sell failed: %s", sellRes.Message)
			return result
		}
		result.Phase = entity.PhaseSold
		result.SellTxHash = sellRes.TxHash

		// The removal transaction is only valid once validators see the
		// post-sell balance, so hold for the settlement window.
		select {
		case <-ctx.Done():
			result.Err = fmt.Sprintf("canceled while waiting for sell settlement: %v", ctx.Err())
			return result
		case <-time.After(s.settleDelay):
		}
	} else {
		s.logger.Info("Trustline balance already zero, skipping sell",
			"address", address, "currency", currency, "issuer", issuer)
	}

	removeRes, err := s.trustlines.RemoveTrustline(ctx, session.SigningSeed, address, currency, issuer)
	if err != nil {
		result.Err = fmt.Sprintf("trustline removal failed after sell: %v", err)
		return result
	}
	if !removeRes.Success {
		result.Err = fmt.Sprintf("trustline removal failed after sell: %s", removeRes.Message)
		return result
	}

	result.Phase = entity.PhaseRemoved
	result.RemoveTxHash = removeRes.TxHash
	s.logger.Info("Trustline removed",
		"address", address, "currency", currency, "issuer", issuer,
		"sellTx", result.SellTxHash, "removeTx", result.RemoveTxHash)
	return result
}

// findTrustLine locates the (currency, issuer) line among the address's
// trustlines, matching the requested currency against both the raw and the
// decoded form of the ledger's currency code.
func (s *TrustlineServiceImpl) findTrustLine(ctx context.Context, address, currency, issuer string) (entity.TrustLine, bool, error) {
	lines, err := s.ledger.TrustLines(ctx, address)
	if err != nil {
		metrics.ObserveUpstreamFailure("ledger_rpc")
		return entity.TrustLine{}, false, err
	}

	for _, line := range lines {
		if line.Issuer != issuer {
			continue
		}
		if strings.EqualFold(line.Currency, currency) ||
			strings.EqualFold(utils.DecodeCurrencyCode(line.Currency), currency) {
			return line, true, nil
		}
	}
	return entity.TrustLine{}, false, nil
}
