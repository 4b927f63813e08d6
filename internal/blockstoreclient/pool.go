package blockstoreclient

import (
	"context"
	"fmt"

	"github.com/dreamware/surfstore/internal/cluster"
)

// Pool holds one Client per BlockStore shard. It satisfies
// metadatastore.PresenceChecker, letting a MetadataStore check block
// presence on whichever shard a proposed hash list names.
type Pool map[cluster.ShardID]*Client

// NewPool builds a Pool with one Client per shard named in descriptor.
func NewPool(descriptor *cluster.Descriptor) Pool {
	pool := make(Pool, len(descriptor.BlockStores))
	for id, addr := range descriptor.BlockStores {
		pool[id] = New(addr)
	}
	return pool
}

// HasBlock checks block presence on the named shard.
func (p Pool) HasBlock(ctx context.Context, shard cluster.ShardID, hash cluster.Hash) (bool, error) {
	client, ok := p[shard]
	if !ok {
		return false, fmt.Errorf("blockstoreclient: no client for shard %d", shard)
	}
	return client.HasBlock(ctx, hash)
}

// Get returns the client for shard, or nil if unknown.
func (p Pool) Get(shard cluster.ShardID) *Client {
	return p[shard]
}
