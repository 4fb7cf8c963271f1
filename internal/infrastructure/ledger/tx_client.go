package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
)

// txClient submits signed operations through the transaction-submission
// service: swap execution (sell an entire issued balance into the native
// currency) and trustline removal. It implements both port.SwapGateway and
// port.TrustlineGateway.
type txClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewTxClient creates a transaction-service client.
func NewTxClient(baseURL string, timeout time.Duration, logger *zap.Logger) *txClient {
	return &txClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("TxClient"),
	}
}

type txResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
	Error   string `json:"error"`
}

func (c *txClient) post(ctx context.Context, path string, payload any) (entity.TxResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return entity.TxResult{}, fmt.Errorf("failed to marshal request for %s: %w", path, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Transaction service call failed", zap.String("path", path), zap.Error(err))
		return entity.TxResult{}, fmt.Errorf("transaction service call to %s failed: %w", path, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Transaction service returned non-OK status",
			zap.String("path", path), zap.Int("statusCode", resp.StatusCode()), zap.ByteString("responseBody", resp.Body()))
		return entity.TxResult{}, fmt.Errorf("transaction service call to %s failed with status %d", path, resp.StatusCode())
	}

	var parsed txResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		c.logger.Error("Failed to unmarshal transaction service response",
			zap.String("path", path), zap.ByteString("responseBody", resp.Body()), zap.Error(err))
		return entity.TxResult{}, fmt.Errorf("failed to unmarshal transaction service response from %s: %w", path, err)
	}

	return entity.TxResult{Success: parsed.Success, TxHash: parsed.TxHash, Message: parsed.Error}, nil
}

type sellAllRequest struct {
	Seed        string `json:"seed"`
	Currency    string `json:"currency"`
	Issuer      string `json:"issuer"`
	Amount      string `json:"amount"`
	SlippagePct string `json:"slippagePct"`
}

// SellEntireBalance implements port.SwapGateway.
func (c *txClient) SellEntireBalance(ctx context.Context, signingSeed, currency, issuer string, amount decimal.Decimal, slippagePct float64) (entity.TxResult, error) {
	return c.post(ctx, "/api/v1/swap/sell-all", sellAllRequest{
		Seed:        signingSeed,
		Currency:    currency,
		Issuer:      issuer,
		Amount:      amount.String(),
		SlippagePct: fmt.Sprintf("%g", slippagePct),
	})
}

type removeTrustlineRequest struct {
	Seed     string `json:"seed"`
	Address  string `json:"address"`
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
}

// RemoveTrustline implements port.TrustlineGateway.
func (c *txClient) RemoveTrustline(ctx context.Context, signingSeed, address, currency, issuer string) (entity.TxResult, error) {
	return c.post(ctx, "/api/v1/trustline/remove", removeTrustlineRequest{
		Seed:     signingSeed,
		Address:  address,
		Currency: currency,
		Issuer:   issuer,
	})
}

var (
	_ port.SwapGateway      = (*txClient)(nil)
	_ port.TrustlineGateway = (*txClient)(nil)
)
