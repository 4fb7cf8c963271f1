package port

import (
	"context"

	"wallet_engine/internal/domain/entity"
)

// Session is what the authentication collaborator cached at login: the handle,
// the primary wallet and, when the user enabled transaction signing, the
// signing seed. The engine only ever reads sessions; insert and eviction are
// owned by the auth layer.
type Session struct {
	UserHandle     string
	PrimaryAddress entity.Address
	// SigningSeed is present only while the session may authorize ledger
	// transactions. An empty seed is a hard precondition failure for the
	// trustline lifecycle, checked before any chain call.
	SigningSeed string
}

// SessionProvider is the injected read capability over the session store.
type SessionProvider interface {
	Lookup(userHandle string) (*Session, bool)
}

// LinkedWalletStore lists chain-specific wallets the user linked in-app.
type LinkedWalletStore interface {
	LinkedWallets(ctx context.Context, userHandle string) ([]entity.Address, error)
}

// WalletProfileStore lists externally linked wallets from the multi-chain
// profile service.
type WalletProfileStore interface {
	ProfileAddresses(ctx context.Context, userHandle string) ([]entity.Address, error)
}
