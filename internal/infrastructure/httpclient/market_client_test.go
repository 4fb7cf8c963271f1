package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMarketClient_SearchPairsWrapped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/search", r.URL.Path)
		assert.Equal(t, "SOLO", r.URL.Query().Get("q"))
		w.Write([]byte(`{"schemaVersion":"1.0.0","pairs":[
			{"chainId":"xrpl","baseToken":{"symbol":"SOLO","address":"rSoloIssuer"},"quoteToken":{"symbol":"XRP"},"priceUsd":"0.21","liquidity":{"usd":150000}},
			{"chainId":"xrpl","baseToken":{"symbol":"SOLO"},"quoteToken":{"symbol":"USD"},"priceUsd":"n/a"}
		]}`))
	}))
	defer ts.Close()

	client := NewMarketDataClient(ts.URL, time.Second, zap.NewNop())
	pairs, err := client.SearchPairs(context.Background(), "SOLO")
	require.NoError(t, err)

	// The pair with an unparseable price is dropped, not fatal.
	require.Len(t, pairs, 1)
	assert.Equal(t, "xrpl", pairs[0].ChainID)
	assert.Equal(t, "SOLO", pairs[0].BaseSymbol)
	assert.Equal(t, "rSoloIssuer", pairs[0].BaseAddress)
	assert.True(t, pairs[0].PriceUSD.Equal(decimal.RequireFromString("0.21")))
	assert.True(t, pairs[0].LiquidityUSD.Equal(decimal.NewFromInt(150000)))
}

func TestMarketClient_SearchPairsBareArray(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"chainId":"xrpl","baseToken":{"symbol":"XRP"},"quoteToken":{"symbol":"USDT"},"priceUsd":"0.52"}]`))
	}))
	defer ts.Close()

	client := NewMarketDataClient(ts.URL, time.Second, zap.NewNop())
	pairs, err := client.SearchPairs(context.Background(), "XRP")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.True(t, pairs[0].PriceUSD.Equal(decimal.RequireFromString("0.52")))
}

func TestMarketClient_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewMarketDataClient(ts.URL, time.Second, zap.NewNop())
	_, err := client.SearchPairs(context.Background(), "SOLO")
	assert.Error(t, err)
}
