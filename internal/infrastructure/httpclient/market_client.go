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

// marketDataClient talks to the DEX Screener style market-data API.
type marketDataClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewMarketDataClient creates a market-data gateway over the given base URL.
func NewMarketDataClient(baseURL string, timeout time.Duration, logger *zap.Logger) port.MarketDataGateway {
	return &marketDataClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("MarketDataClient"),
	}
}

type marketTokenRef struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type marketLiquidity struct {
	Usd float64 `json:"usd"`
}

type marketPairData struct {
	ChainID    string           `json:"chainId"`
	BaseToken  marketTokenRef   `json:"baseToken"`
	QuoteToken marketTokenRef   `json:"quoteToken"`
	PriceUsd   string           `json:"priceUsd"`
	Liquidity  *marketLiquidity `json:"liquidity"`
}

type pairSearchResponse struct {
	SchemaVersion string           `json:"schemaVersion"`
	Pairs         []marketPairData `json:"pairs"`
}

// SearchPairs implements port.MarketDataGateway.
func (c *marketDataClient) SearchPairs(ctx context.Context, query string) ([]entity.MarketPair, error) {
	requestURL := fmt.Sprintf("%s/latest/dex/search?q=%s", c.baseURL, url.QueryEscape(query))
	c.logger.Debug("Searching market pairs", zap.String("url", requestURL))

	body, err := getJSON(ctx, c.client, requestURL, nil, c.timeout, c.logger)
	if err != nil {
		return nil, err
	}

	var wrapper pairSearchResponse
	if err := json.Unmarshal(body, &wrapper); err != nil {
		// Some deployments return a bare array instead of the wrapped object.
		var direct []marketPairData
		if errDirect := json.Unmarshal(body, &direct); errDirect != nil {
			c.logger.Error("Failed to unmarshal pair search response",
				zap.String("url", requestURL), zap.ByteString("responseBody", body), zap.Error(err))
			return nil, fmt.Errorf("failed to unmarshal pair search response from %s: %w", requestURL, err)
		}
		wrapper.Pairs = direct
	}

	pairs := make([]entity.MarketPair, 0, len(wrapper.Pairs))
	for _, p := range wrapper.Pairs {
		price, err := decimal.NewFromString(p.PriceUsd)
		if err != nil {
			c.logger.Warn("Skipping pair with unparseable USD price",
				zap.String("chainId", p.ChainID),
				zap.String("base", p.BaseToken.Symbol),
				zap.String("priceUsd", p.PriceUsd))
			continue
		}
		pair := entity.MarketPair{
			ChainID:      p.ChainID,
			BaseSymbol:   p.BaseToken.Symbol,
			BaseAddress:  p.BaseToken.Address,
			QuoteSymbol:  p.QuoteToken.Symbol,
			QuoteAddress: p.QuoteToken.Address,
			PriceUSD:     price,
		}
		if p.Liquidity != nil {
			pair.LiquidityUSD = decimal.NewFromFloat(p.Liquidity.Usd)
		}
		pairs = append(pairs, pair)
	}

	c.logger.Debug("Pair search completed", zap.String("query", query), zap.Int("pairCount", len(pairs)))
	return pairs, nil
}
