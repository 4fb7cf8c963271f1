package profile

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the wallet-profile service, which persists both in-app
// linked wallets and externally connected multi-chain wallets. It implements
// port.LinkedWalletStore and port.WalletProfileStore.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a wallet-profile client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("WalletProfileClient"),
	}
}

type walletEntry struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

type walletsResponse struct {
	Wallets []walletEntry `json:"wallets"`
}

func (c *Client) fetchWallets(ctx context.Context, path, handle string) ([]entity.Address, error) {
	requestURL := fmt.Sprintf("%s%s?handle=%s", c.baseURL, path, url.QueryEscape(handle))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Wallet-profile request failed", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("wallet-profile request to %s failed: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("wallet-profile request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var parsed walletsResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		c.logger.Error("Failed to unmarshal wallet-profile response",
			zap.String("url", requestURL), zap.ByteString("responseBody", resp.Body()), zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal wallet-profile response from %s: %w", requestURL, err)
	}

	addrs := make([]entity.Address, 0, len(parsed.Wallets))
	for _, w := range parsed.Wallets {
		addrs = append(addrs, entity.Address{Chain: entity.Chain(w.Chain), Value: w.Address})
	}
	return addrs, nil
}

// LinkedWallets implements port.LinkedWalletStore.
func (c *Client) LinkedWallets(ctx context.Context, userHandle string) ([]entity.Address, error) {
	return c.fetchWallets(ctx, "/api/v1/wallets/linked", userHandle)
}

// ProfileAddresses implements port.WalletProfileStore.
func (c *Client) ProfileAddresses(ctx context.Context, userHandle string) ([]entity.Address, error) {
	return c.fetchWallets(ctx, "/api/v1/wallets/profile", userHandle)
}

var (
	_ port.LinkedWalletStore  = (*Client)(nil)
	_ port.WalletProfileStore = (*Client)(nil)
)
