package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"wallet_engine/internal/infrastructure/configloader"
)

// EVMClient serves native-coin balances for one configured hex chain. Linked
// hex-chain wallets only contribute their native coin to the portfolio, so
// this client deliberately exposes nothing beyond eth_getBalance.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         configloader.EVMNetworkConfig
	rpcCallTimeout time.Duration
}

// NewEVMClient dials the network's RPC endpoint and returns a client for it.
func NewEVMClient(netDef configloader.EVMNetworkConfig, connectionTimeout, rpcCallTimeout time.Duration) (*EVMClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, netDef.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s for network %s: %w", netDef.RPCURL, netDef.Name, err)
	}
	return &EVMClient{ethClient: client, netDef: netDef, rpcCallTimeout: rpcCallTimeout}, nil
}

// NativeBalance fetches the address's native-coin balance in whole units.
func (c *EVMClient) NativeBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if !common.IsHexAddress(address) {
		return decimal.Zero, fmt.Errorf("invalid hex address %q for network %s", address, c.netDef.Name)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	wei, err := c.ethClient.BalanceAt(callCtx, common.HexToAddress(address), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch native balance for %s on %s: %w", address, c.netDef.Name, err)
	}

	decimals := c.netDef.Decimals
	if decimals <= 0 {
		decimals = 18
	}
	return decimal.NewFromBigInt(wei, -decimals), nil
}

// Definition returns the network configuration for this client.
func (c *EVMClient) Definition() configloader.EVMNetworkConfig {
	return c.netDef
}
