package ledger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_engine/internal/domain/entity"
)

func TestTxClient_SellEntireBalance(t *testing.T) {
	var gotBody map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/swap/sell-all", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"success":true,"txHash":"SELL1"}`))
	}))
	defer ts.Close()

	client := NewTxClient(ts.URL, time.Second, zap.NewNop())
	result, err := client.SellEntireBalance(context.Background(), "sEdSeed", "SOLO", "rIssuer", decimal.RequireFromString("42.5"), 5)
	require.NoError(t, err)

	assert.Equal(t, entity.TxResult{Success: true, TxHash: "SELL1"}, result)
	assert.Equal(t, "sEdSeed", gotBody["seed"])
	assert.Equal(t, "SOLO", gotBody["currency"])
	assert.Equal(t, "rIssuer", gotBody["issuer"])
	assert.Equal(t, "42.5", gotBody["amount"])
	assert.Equal(t, "5", gotBody["slippagePct"])
}

func TestTxClient_RemoveTrustline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/trustline/remove", r.URL.Path)
		w.Write([]byte(`{"success":false,"error":"tecNO_PERMISSION"}`))
	}))
	defer ts.Close()

	client := NewTxClient(ts.URL, time.Second, zap.NewNop())
	result, err := client.RemoveTrustline(context.Background(), "sEdSeed", "rAccount", "SOLO", "rIssuer")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "tecNO_PERMISSION", result.Message)
}

func TestTxClient_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewTxClient(ts.URL, time.Second, zap.NewNop())
	_, err := client.RemoveTrustline(context.Background(), "sEdSeed", "rAccount", "SOLO", "rIssuer")
	assert.Error(t, err)
}
