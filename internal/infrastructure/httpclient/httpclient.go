package httpclient

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// getJSON executes a GET request and returns the raw body on HTTP 200. The
// context deadline wins over the client's default timeout when present.
func getJSON(ctx context.Context, client *fasthttp.Client, requestURL string, headers map[string]string, timeout time.Duration, logger *zap.Logger) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			logger.Error("Request failed", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := client.DoTimeout(req, resp, timeout); err != nil {
			logger.Error("Request failed (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		logger.Error("Request returned non-OK status",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()))
		return nil, fmt.Errorf("request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	// The body buffer is reused after release; hand back a copy.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
