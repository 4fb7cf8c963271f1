package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
)

// registryClient talks to the internal token registry service, the curated
// last-resort price source of the token price cascade.
type registryClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewTokenRegistryClient creates a token-registry gateway.
func NewTokenRegistryClient(baseURL string, timeout time.Duration, logger *zap.Logger) port.TokenRegistryGateway {
	return &registryClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("TokenRegistryClient"),
	}
}

type registryTokenEntry struct {
	Symbol   string `json:"symbol"`
	Issuer   string `json:"issuer"`
	PriceUsd string `json:"priceUsd"`
}

type registryLookupResponse struct {
	Tokens []registryTokenEntry `json:"tokens"`
}

// Lookup implements port.TokenRegistryGateway.
func (c *registryClient) Lookup(ctx context.Context, symbol string) ([]entity.RegistryToken, error) {
	requestURL := fmt.Sprintf("%s/api/v1/tokens?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	body, err := getJSON(ctx, c.client, requestURL, nil, c.timeout, c.logger)
	if err != nil {
		return nil, err
	}

	var resp registryLookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to unmarshal registry response",
			zap.String("url", requestURL), zap.ByteString("responseBody", body), zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal registry response from %s: %w", requestURL, err)
	}

	tokens := make([]entity.RegistryToken, 0, len(resp.Tokens))
	for _, t := range resp.Tokens {
		price, err := decimal.NewFromString(t.PriceUsd)
		if err != nil {
			c.logger.Warn("Skipping registry token with unparseable price",
				zap.String("symbol", t.Symbol), zap.String("priceUsd", t.PriceUsd))
			continue
		}
		tokens = append(tokens, entity.RegistryToken{
			Symbol:   t.Symbol,
			Issuer:   t.Issuer,
			PriceUSD: price,
		})
	}
	return tokens, nil
}
