package blockstoreclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"github.com/dreamware/surfstore/internal/blockstore"
	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestShard(t *testing.T) (*Client, func()) {
	t.Helper()
	registry := prometheus.NewRegistry()
	store := blockstore.New(0, blockstore.NewMetrics(registry))
	srv := blockstore.NewServer(store, zerolog.Nop(), promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	ts := httptest.NewServer(srv)
	return New(ts.URL), ts.Close
}

func hashOf(data []byte) cluster.Hash {
	sum := sha256.Sum256(data)
	return cluster.Hash(hex.EncodeToString(sum[:]))
}

func TestClientPutGetHasBlock(t *testing.T) {
	c, closeFn := newTestShard(t)
	defer closeFn()
	ctx := context.Background()

	data := []byte("client round trip")
	hash := hashOf(data)

	has, err := c.HasBlock(ctx, hash)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, c.PutBlock(ctx, hash, data))

	has, err = c.HasBlock(ctx, hash)
	require.NoError(t, err)
	require.True(t, has)

	got, err := c.GetBlock(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestClientGetBlockMissing(t *testing.T) {
	c, closeFn := newTestShard(t)
	defer closeFn()

	_, err := c.GetBlock(context.Background(), cluster.Hash("1111111111111111111111111111111111111111111111111111111111111111"))
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func TestClientPing(t *testing.T) {
	c, closeFn := newTestShard(t)
	defer closeFn()

	rtt, err := c.Ping(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, rtt.Nanoseconds(), int64(0))
}
