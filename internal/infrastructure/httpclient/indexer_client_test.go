package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_engine/internal/domain/entity"
)

func TestWireAmount_UnmarshalBothShapes(t *testing.T) {
	var a wireAmount
	require.NoError(t, json.Unmarshal([]byte(`"5000000"`), &a))
	assert.Equal(t, entity.LedgerAmount{Raw: "5000000"}, a.LedgerAmount)

	var b wireAmount
	require.NoError(t, json.Unmarshal([]byte(`{"currency":"XRP","value":"7.5"}`), &b))
	assert.Equal(t, entity.LedgerAmount{Currency: "XRP", Value: "7.5"}, b.LedgerAmount)

	var c wireAmount
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestIndexerClient_NFTsByOwner(t *testing.T) {
	var gotPath, gotAPIKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("X-API-Key")
		w.Write([]byte(`{"owner":"rOwner","nfts":[
			{"nftokenID":"000A","issuer":"rIssuer","nftokenTaxon":7,"url":"ipfs://x"},
			{"nftokenID":"000B","issuer":"rIssuer","nftokenTaxon":7}
		]}`))
	}))
	defer ts.Close()

	client := NewIndexerClient(ts.URL, "secret", time.Second, 100, zap.NewNop())
	holdings, err := client.NFTsByOwner(context.Background(), "rOwner")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/address/rOwner/nfts", gotPath)
	assert.Equal(t, "secret", gotAPIKey)
	require.Len(t, holdings, 2)
	assert.Equal(t, entity.NftHolding{TokenID: "000A", Issuer: "rIssuer", Taxon: 7, ImageRef: "ipfs://x"}, holdings[0])
}

func TestIndexerClient_CollectionStatsMixedShapes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collection/rIssuer/7/stats", r.URL.Path)
		w.Write([]byte(`{"collection":{"floorPrice":{
			"open":["9000000"],
			"private":[{"currency":"XRP","value":"7.5"}]
		}}}`))
	}))
	defer ts.Close()

	client := NewIndexerClient(ts.URL, "", time.Second, 100, zap.NewNop())
	entries, err := client.CollectionStats(context.Background(), "rIssuer", 7)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, entity.LedgerAmount{Raw: "9000000"}, entries[0])
	assert.Equal(t, entity.LedgerAmount{Currency: "XRP", Value: "7.5"}, entries[1])
}

func TestIndexerClient_RecentSalesAndOffers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/collection/rIssuer/7/sales":
			assert.Equal(t, "20", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"sales":[{"amount":"4000000"}]}`))
		case r.URL.Path == "/api/v1/collection/rIssuer/7/offers":
			assert.Equal(t, "sell", r.URL.Query().Get("type"))
			w.Write([]byte(`{"offers":[{"amount":{"currency":"XRP","value":"2.5"}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := NewIndexerClient(ts.URL, "", time.Second, 100, zap.NewNop())

	sales, err := client.RecentSales(context.Background(), "rIssuer", 7, 20)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, entity.LedgerAmount{Raw: "4000000"}, sales[0])

	offers, err := client.OpenOffers(context.Background(), "rIssuer", 7, 20)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, entity.LedgerAmount{Currency: "XRP", Value: "2.5"}, offers[0])
}

func TestIndexerClient_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewIndexerClient(ts.URL, "", time.Second, 100, zap.NewNop())
	_, err := client.NFTsByOwner(context.Background(), "rOwner")
	assert.Error(t, err)
}
