package ledger

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// rpcClient is the home-ledger JSON-RPC gateway (account_info, account_lines).
type rpcClient struct {
	client  *fasthttp.Client
	rpcURL  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRPCClient creates a ledger gateway over the given JSON-RPC endpoint.
func NewRPCClient(rpcURL string, timeout time.Duration, logger *zap.Logger) port.LedgerGateway {
	return &rpcClient{
		client:  &fasthttp.Client{},
		rpcURL:  rpcURL,
		timeout: timeout,
		logger:  logger.Named("LedgerRPCClient"),
	}
}

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

func (c *rpcClient) call(ctx context.Context, method string, params any, out any) error {
	payload, err := json.Marshal(rpcRequest{Method: method, Params: []any{params}})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.rpcURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Ledger RPC call failed", zap.String("method", method), zap.Error(err))
		return fmt.Errorf("ledger RPC %s failed: %w", method, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Ledger RPC returned non-OK status",
			zap.String("method", method), zap.Int("statusCode", resp.StatusCode()))
		return fmt.Errorf("ledger RPC %s failed with status %d", method, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		c.logger.Error("Failed to unmarshal ledger RPC response",
			zap.String("method", method), zap.ByteString("responseBody", resp.Body()), zap.Error(err))
		return fmt.Errorf("failed to unmarshal ledger RPC %s response: %w", method, err)
	}
	return nil
}

type accountInfoResponse struct {
	Result struct {
		Status      string `json:"status"`
		Error       string `json:"error"`
		AccountData struct {
			Balance string `json:"Balance"`
		} `json:"account_data"`
	} `json:"result"`
}

// NativeBalance implements port.LedgerGateway. The balance is returned in
// native units; an unfunded account holds zero rather than erroring out.
func (c *rpcClient) NativeBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	var resp accountInfoResponse
	params := map[string]any{"account": address, "ledger_index": "validated"}
	if err := c.call(ctx, "account_info", params, &resp); err != nil {
		return decimal.Zero, err
	}

	if resp.Result.Error == "actNotFound" {
		c.logger.Debug("Account not found on ledger, treating balance as zero", zap.String("address", address))
		return decimal.Zero, nil
	}
	if resp.Result.Status != "success" {
		return decimal.Zero, fmt.Errorf("account_info for %s returned %q", address, resp.Result.Error)
	}

	native, err := utils.DropsToNative(resp.Result.AccountData.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("account_info for %s returned bad balance: %w", address, err)
	}
	return native, nil
}

type accountLinesResponse struct {
	Result struct {
		Status string `json:"status"`
		Error  string `json:"error"`
		Lines  []struct {
			Account  string `json:"account"`
			Currency string `json:"currency"`
			Balance  string `json:"balance"`
			Limit    string `json:"limit"`
		} `json:"lines"`
	} `json:"result"`
}

// TrustLines implements port.LedgerGateway.
func (c *rpcClient) TrustLines(ctx context.Context, address string) ([]entity.TrustLine, error) {
	var resp accountLinesResponse
	params := map[string]any{"account": address, "ledger_index": "validated"}
	if err := c.call(ctx, "account_lines", params, &resp); err != nil {
		return nil, err
	}

	if resp.Result.Error == "actNotFound" {
		return nil, nil
	}
	if resp.Result.Status != "success" {
		return nil, fmt.Errorf("account_lines for %s returned %q", address, resp.Result.Error)
	}

	lines := make([]entity.TrustLine, 0, len(resp.Result.Lines))
	for _, l := range resp.Result.Lines {
		balance, err := decimal.NewFromString(l.Balance)
		if err != nil {
			c.logger.Warn("Skipping trustline with unparseable balance",
				zap.String("address", address), zap.String("currency", l.Currency), zap.String("balance", l.Balance))
			continue
		}
		limit, err := decimal.NewFromString(l.Limit)
		if err != nil {
			limit = decimal.Zero
		}
		lines = append(lines, entity.TrustLine{
			Currency: l.Currency,
			Issuer:   l.Account,
			Balance:  balance,
			Limit:    limit,
		})
	}
	return lines, nil
}
