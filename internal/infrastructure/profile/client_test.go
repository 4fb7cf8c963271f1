package profile

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

func TestLinkedWallets(t *testing.T) {
	var gotPath, gotHandle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHandle = r.URL.Query().Get("handle")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"wallets":[{"chain":"xrpl","address":"rLinked1"},{"chain":"ethereum","address":"0xAbC"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zap.NewNop())

	addrs, err := client.LinkedWallets(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/wallets/linked", gotPath)
	assert.Equal(t, "alice", gotHandle)
	require.Len(t, addrs, 2)
	assert.Equal(t, entity.Address{Chain: entity.ChainXRPL, Value: "rLinked1"}, addrs[0])
	assert.Equal(t, entity.Address{Chain: entity.Chain("ethereum"), Value: "0xAbC"}, addrs[1])
}

func TestProfileAddresses_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wallets/profile", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"wallets":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zap.NewNop())

	addrs, err := client.ProfileAddresses(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestFetchWallets_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zap.NewNop())

	_, err := client.LinkedWallets(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
