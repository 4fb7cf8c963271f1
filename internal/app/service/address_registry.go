package service

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
)

// addressRegistry aggregates the primary wallet, in-app linked wallets and the
// external multi-chain profile into one deduplicated address set. A failing
// lookup source contributes zero addresses and is never fatal.
type addressRegistry struct {
	linked   port.LinkedWalletStore
	profiles port.WalletProfileStore
	logger   port.Logger
}

// NewAddressRegistry creates the registry over the two external lookup stores.
// Either store may be nil when the deployment does not have it.
func NewAddressRegistry(linked port.LinkedWalletStore, profiles port.WalletProfileStore, l port.Logger) port.AddressRegistry {
	return &addressRegistry{
		linked:   linked,
		profiles: profiles,
		logger:   l,
	}
}

// CollectAddresses implements port.AddressRegistry. Order is deterministic:
// primary first, then linked wallets, then profile wallets, first occurrence wins.
func (r *addressRegistry) CollectAddresses(ctx context.Context, session *port.Session) []entity.Address {
	out := make([]entity.Address, 0, 4)
	seen := make(map[string]struct{})

	add := func(addr entity.Address, source string) {
		normalized, ok := normalizeAddress(addr)
		if !ok {
			r.logger.Warn("Skipping malformed address", "source", source, "chain", addr.Chain, "address", addr.Value)
			return
		}
		if _, dup := seen[normalized.Key()]; dup {
			return
		}
		seen[normalized.Key()] = struct{}{}
		out = append(out, normalized)
	}

	if session.PrimaryAddress.Value != "" {
		add(session.PrimaryAddress, "primary")
	}

	if r.linked != nil {
		wallets, err := r.linked.LinkedWallets(ctx, session.UserHandle)
		if err != nil {
			r.logger.Warn("Linked-wallet lookup failed, continuing without it", "handle", session.UserHandle, "error", err)
		}
		for _, w := range wallets {
			add(w, "linked")
		}
	}

	if r.profiles != nil {
		wallets, err := r.profiles.ProfileAddresses(ctx, session.UserHandle)
		if err != nil {
			r.logger.Warn("Wallet-profile lookup failed, continuing without it", "handle", session.UserHandle, "error", err)
		}
		for _, w := range wallets {
			add(w, "profile")
		}
	}

	r.logger.Debug("Collected addresses for user", "handle", session.UserHandle, "count", len(out))
	return out
}

// normalizeAddress applies the per-chain case convention: hex-style addresses
// are lower-cased, base58 ledger addresses are kept verbatim.
func normalizeAddress(addr entity.Address) (entity.Address, bool) {
	value := strings.TrimSpace(addr.Value)
	if value == "" {
		return entity.Address{}, false
	}

	if addr.IsLedgerNative() {
		// Classic ledger addresses start with 'r'; case is significant.
		if value[0] != 'r' || len(value) < 25 || len(value) > 35 {
			return entity.Address{}, false
		}
		return entity.Address{Chain: addr.Chain, Value: value}, true
	}

	if !common.IsHexAddress(value) {
		return entity.Address{}, false
	}
	return entity.Address{Chain: addr.Chain, Value: strings.ToLower(value)}, true
}
