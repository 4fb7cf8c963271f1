package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
)

const (
	testPrimary = "rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH"
	testLinked  = "rDNvpqSzJzk8Qx2oG5HHkRH6xXsZ8fqs2a"
)

func testSession() *port.Session {
	return &port.Session{
		UserHandle:     "alice",
		PrimaryAddress: entity.Address{Chain: entity.ChainXRPL, Value: testPrimary},
	}
}

func TestCollectAddresses_OrderAndDedup(t *testing.T) {
	linked := &fakeWalletStore{addrs: []entity.Address{
		{Chain: entity.ChainXRPL, Value: testLinked},
		{Chain: entity.ChainXRPL, Value: testPrimary}, // duplicate of primary
	}}
	profiles := &fakeWalletStore{addrs: []entity.Address{
		{Chain: entity.ChainXRPL, Value: testLinked}, // duplicate of linked
		{Chain: "ethereum", Value: "0xAbCdEF1234567890abcdef1234567890ABCDEF12"},
	}}

	registry := NewAddressRegistry(linked, profiles, noopLogger{})
	addrs := registry.CollectAddresses(context.Background(), testSession())

	require.Len(t, addrs, 3)
	assert.Equal(t, testPrimary, addrs[0].Value)
	assert.Equal(t, testLinked, addrs[1].Value)
	// Hex addresses are lower-cased for deduplication.
	assert.Equal(t, entity.Address{Chain: "ethereum", Value: "0xabcdef1234567890abcdef1234567890abcdef12"}, addrs[2])
}

func TestCollectAddresses_LedgerAddressCasePreserved(t *testing.T) {
	registry := NewAddressRegistry(nil, nil, noopLogger{})
	addrs := registry.CollectAddresses(context.Background(), testSession())

	require.Len(t, addrs, 1)
	assert.Equal(t, testPrimary, addrs[0].Value)
}

func TestCollectAddresses_MalformedAddressesSkipped(t *testing.T) {
	linked := &fakeWalletStore{addrs: []entity.Address{
		{Chain: entity.ChainXRPL, Value: "not-a-ledger-address"},
		{Chain: entity.ChainXRPL, Value: "r"},
		{Chain: entity.ChainXRPL, Value: ""},
		{Chain: "ethereum", Value: "0x123"},
		{Chain: entity.ChainXRPL, Value: testLinked},
	}}

	registry := NewAddressRegistry(linked, nil, noopLogger{})
	addrs := registry.CollectAddresses(context.Background(), testSession())

	require.Len(t, addrs, 2)
	assert.Equal(t, testLinked, addrs[1].Value)
}

func TestCollectAddresses_FailingStoreTolerated(t *testing.T) {
	linked := &fakeWalletStore{err: errors.New("store down")}
	profiles := &fakeWalletStore{addrs: []entity.Address{
		{Chain: entity.ChainXRPL, Value: testLinked},
	}}

	registry := NewAddressRegistry(linked, profiles, noopLogger{})
	addrs := registry.CollectAddresses(context.Background(), testSession())

	require.Len(t, addrs, 2)
	assert.Equal(t, 1, linked.calls)
	assert.Equal(t, testLinked, addrs[1].Value)
}

func TestCollectAddresses_EmptyPrimarySkipped(t *testing.T) {
	session := &port.Session{UserHandle: "bob"}
	registry := NewAddressRegistry(nil, nil, noopLogger{})

	addrs := registry.CollectAddresses(context.Background(), session)
	assert.Empty(t, addrs)
}
