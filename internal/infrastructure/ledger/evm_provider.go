package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/infrastructure/configloader"
)

const defaultProviderConnectionTimeout = 10 * time.Second

// evmProvider implements port.EVMGateway by lazily dialing one client per
// configured hex chain and caching it for the process lifetime.
type evmProvider struct {
	networks map[entity.Chain]configloader.EVMNetworkConfig
	clients  map[entity.Chain]*EVMClient
	mu       sync.Mutex

	logger         port.Logger
	rpcCallTimeout time.Duration
}

// NewEVMProvider creates the gateway over the configured network list.
func NewEVMProvider(networks []configloader.EVMNetworkConfig, rpcCallTimeout time.Duration, l port.Logger) port.EVMGateway {
	byChain := make(map[entity.Chain]configloader.EVMNetworkConfig, len(networks))
	for _, netDef := range networks {
		byChain[entity.Chain(netDef.Name)] = netDef
	}
	return &evmProvider{
		networks:       byChain,
		clients:        make(map[entity.Chain]*EVMClient),
		logger:         l,
		rpcCallTimeout: rpcCallTimeout,
	}
}

// NativeBalance implements port.EVMGateway.
func (p *evmProvider) NativeBalance(ctx context.Context, chain entity.Chain, address string) (decimal.Decimal, error) {
	client, err := p.getClient(chain)
	if err != nil {
		return decimal.Zero, err
	}
	return client.NativeBalance(ctx, address)
}

func (p *evmProvider) getClient(chain entity.Chain) (*EVMClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[chain]; exists {
		return client, nil
	}

	netDef, known := p.networks[chain]
	if !known {
		return nil, fmt.Errorf("no EVM network configured for chain %q", chain)
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc", netDef.RPCURL)
	client, err := NewEVMClient(netDef, defaultProviderConnectionTimeout, p.rpcCallTimeout)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[chain] = client
	return client, nil
}
