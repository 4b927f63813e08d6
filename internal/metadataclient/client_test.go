package metadataclient

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/metadatastore"
	"github.com/dreamware/surfstore/internal/surferrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	present map[cluster.Hash]bool
}

func (f *fakeChecker) HasBlock(_ context.Context, _ cluster.ShardID, hash cluster.Hash) (bool, error) {
	return f.present[hash], nil
}

func newTestMetadataServer(t *testing.T, presentHashes ...cluster.Hash) (*Client, func()) {
	t.Helper()
	present := make(map[cluster.Hash]bool, len(presentHashes))
	for _, h := range presentHashes {
		present[h] = true
	}

	registry := prometheus.NewRegistry()
	store := metadatastore.New(&fakeChecker{present: present}, metadatastore.NewMetrics(registry))
	srv := metadatastore.NewServer(store, zerolog.Nop(), promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	ts := httptest.NewServer(srv)
	return New(ts.URL), ts.Close
}

func TestClientReadFileUnknown(t *testing.T) {
	c, closeFn := newTestMetadataServer(t)
	defer closeFn()

	version, placement, err := c.ReadFile(context.Background(), "nope.txt")
	require.NoError(t, err)
	require.Equal(t, uint64(0), version)
	require.Empty(t, placement)
}

func TestClientModifyAndReadRoundTrip(t *testing.T) {
	hash := cluster.Hash("a")
	c, closeFn := newTestMetadataServer(t, hash)
	defer closeFn()
	ctx := context.Background()

	require.NoError(t, c.ModifyFile(ctx, "f.txt", 1, []cluster.HashShard{{Hash: hash, Shard: 0}}))

	version, placement, err := c.ReadFile(ctx, "f.txt")
	require.NoError(t, err)
	require.Equal(t, uint64(1), version)
	require.Equal(t, []cluster.HashShard{{Hash: hash, Shard: 0}}, placement)
}

func TestClientModifyWrongVersionDecodesTypedError(t *testing.T) {
	c, closeFn := newTestMetadataServer(t)
	defer closeFn()

	err := c.ModifyFile(context.Background(), "f.txt", 5, nil)
	var wrongVersion *surferrors.WrongVersionError
	require.ErrorAs(t, err, &wrongVersion)
	require.Equal(t, uint64(0), wrongVersion.Current)
}

func TestClientModifyMissingBlocksDecodesTypedError(t *testing.T) {
	c, closeFn := newTestMetadataServer(t)
	defer closeFn()

	err := c.ModifyFile(context.Background(), "f.txt", 1, []cluster.HashShard{{Hash: "absent", Shard: 0}})
	var missingBlocks *surferrors.MissingBlocksError
	require.ErrorAs(t, err, &missingBlocks)
	require.Len(t, missingBlocks.List, 1)
}

func TestClientDeleteNotFoundDecodesTypedError(t *testing.T) {
	c, closeFn := newTestMetadataServer(t)
	defer closeFn()

	err := c.DeleteFile(context.Background(), "nope.txt", 1)
	require.ErrorIs(t, err, surferrors.ErrNotFound)
}
