package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
)

// indexerClient talks to the external ledger-indexing service: NFT ownership,
// collection floor statistics, sales and offers. The service enforces a strict
// request quota, so every call goes through a shared rate limiter.
type indexerClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewIndexerClient creates an indexer gateway. ratePerSecond bounds outgoing
// request rate across all portfolio requests sharing this client.
func NewIndexerClient(baseURL, apiKey string, timeout time.Duration, ratePerSecond float64, logger *zap.Logger) port.IndexerGateway {
	return &indexerClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		logger:  logger.Named("IndexerClient"),
	}
}

// wireAmount decodes either denomination shape the indexer uses: a plain
// smallest-unit integer string for native amounts, or a currency/value object.
type wireAmount struct {
	entity.LedgerAmount
}

func (a *wireAmount) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		a.LedgerAmount = entity.LedgerAmount{Raw: raw}
		return nil
	}

	var obj struct {
		Currency string `json:"currency"`
		Value    string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("amount is neither a string nor a currency/value object: %w", err)
	}
	a.LedgerAmount = entity.LedgerAmount{Currency: obj.Currency, Value: obj.Value}
	return nil
}

func (c *indexerClient) get(ctx context.Context, requestURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"X-API-Key": c.apiKey}
	}

	body, err := getJSON(ctx, c.client, requestURL, headers, c.timeout, c.logger)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("Failed to unmarshal indexer response",
			zap.String("url", requestURL), zap.ByteString("responseBody", body), zap.Error(err))
		return fmt.Errorf("failed to unmarshal indexer response from %s: %w", requestURL, err)
	}
	return nil
}

type ownedNft struct {
	TokenID string `json:"nftokenID"`
	Issuer  string `json:"issuer"`
	Taxon   uint32 `json:"nftokenTaxon"`
	URL     string `json:"url"`
}

type nftsByOwnerResponse struct {
	Owner string     `json:"owner"`
	Nfts  []ownedNft `json:"nfts"`
}

// NFTsByOwner implements port.IndexerGateway.
func (c *indexerClient) NFTsByOwner(ctx context.Context, address string) ([]entity.NftHolding, error) {
	requestURL := fmt.Sprintf("%s/api/v1/address/%s/nfts", c.baseURL, address)

	var resp nftsByOwnerResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return nil, err
	}

	holdings := make([]entity.NftHolding, 0, len(resp.Nfts))
	for _, n := range resp.Nfts {
		holdings = append(holdings, entity.NftHolding{
			TokenID:  n.TokenID,
			Issuer:   n.Issuer,
			Taxon:    n.Taxon,
			ImageRef: n.URL,
		})
	}
	return holdings, nil
}

type collectionStatsResponse struct {
	Collection struct {
		FloorPrice struct {
			Open    []wireAmount `json:"open"`
			Private []wireAmount `json:"private"`
		} `json:"floorPrice"`
	} `json:"collection"`
}

// CollectionStats implements port.IndexerGateway. Open-market and
// private-sale entries are returned together; the caller picks the minimum.
func (c *indexerClient) CollectionStats(ctx context.Context, issuer string, taxon uint32) ([]entity.LedgerAmount, error) {
	requestURL := fmt.Sprintf("%s/api/v1/collection/%s/%d/stats", c.baseURL, issuer, taxon)

	var resp collectionStatsResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return nil, err
	}

	entries := make([]entity.LedgerAmount, 0, len(resp.Collection.FloorPrice.Open)+len(resp.Collection.FloorPrice.Private))
	for _, a := range resp.Collection.FloorPrice.Open {
		entries = append(entries, a.LedgerAmount)
	}
	for _, a := range resp.Collection.FloorPrice.Private {
		entries = append(entries, a.LedgerAmount)
	}
	return entries, nil
}

type salesResponse struct {
	Sales []struct {
		Amount wireAmount `json:"amount"`
	} `json:"sales"`
}

// RecentSales implements port.IndexerGateway.
func (c *indexerClient) RecentSales(ctx context.Context, issuer string, taxon uint32, limit int) ([]entity.LedgerAmount, error) {
	requestURL := fmt.Sprintf("%s/api/v1/collection/%s/%d/sales?limit=%d", c.baseURL, issuer, taxon, limit)

	var resp salesResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return nil, err
	}

	amounts := make([]entity.LedgerAmount, 0, len(resp.Sales))
	for _, s := range resp.Sales {
		amounts = append(amounts, s.Amount.LedgerAmount)
	}
	return amounts, nil
}

type offersResponse struct {
	Offers []struct {
		Amount wireAmount `json:"amount"`
	} `json:"offers"`
}

// OpenOffers implements port.IndexerGateway.
func (c *indexerClient) OpenOffers(ctx context.Context, issuer string, taxon uint32, limit int) ([]entity.LedgerAmount, error) {
	requestURL := fmt.Sprintf("%s/api/v1/collection/%s/%d/offers?type=sell&limit=%d", c.baseURL, issuer, taxon, limit)

	var resp offersResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return nil, err
	}

	amounts := make([]entity.LedgerAmount, 0, len(resp.Offers))
	for _, o := range resp.Offers {
		amounts = append(amounts, o.Amount.LedgerAmount)
	}
	return amounts, nil
}
