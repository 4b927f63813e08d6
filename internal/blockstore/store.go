// Package blockstore implements a single BlockStore shard: content-addressed
// storage for fixed-size blocks, keyed by their SHA-256 hash. See doc.go for
// complete package documentation.
package blockstore

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/storage"
)

// hashLen is the length of a SHA-256 hash encoded as lowercase hex.
const hashLen = 64

// BlockStore is one shard of SurfStore's block storage layer. It has no
// notion of other shards, migration, or replication: given a hash it either
// has the block or it doesn't, and PutBlock is the only way to change that.
// Placement — which shard a given hash belongs to — is entirely the
// MetadataStore's concern.
type BlockStore struct {
	store   storage.Store
	metrics *Metrics
	id      cluster.ShardID
}

// New creates a BlockStore backed by an in-memory store, identified by id
// for logging and metrics.
func New(id cluster.ShardID, metrics *Metrics) *BlockStore {
	return &BlockStore{
		store:   storage.NewMemoryStore(),
		metrics: metrics,
		id:      id,
	}
}

// ID returns the shard identifier this BlockStore was constructed with.
func (b *BlockStore) ID() cluster.ShardID {
	return b.id
}

func validateHash(hash cluster.Hash) error {
	if len(hash) != hashLen {
		return fmt.Errorf("blockstore: hash %q has length %d, want %d", hash, len(hash), hashLen)
	}
	if _, err := hex.DecodeString(string(hash)); err != nil {
		return fmt.Errorf("blockstore: hash %q is not valid hex: %w", hash, err)
	}
	return nil
}

// PutBlock stores data under hash, overwriting any existing block at the
// same hash (a no-op in practice, since identical content hashes to the
// same value, but the protocol doesn't require callers to check first).
func (b *BlockStore) PutBlock(hash cluster.Hash, data []byte) error {
	start := time.Now()
	op := "put"

	if err := validateHash(hash); err != nil {
		b.observe(op, "error", start)
		return err
	}

	if err := b.store.Put(string(hash), data); err != nil {
		b.observe(op, "error", start)
		return fmt.Errorf("blockstore: put %s: %w", hash, err)
	}

	b.observe(op, "ok", start)
	b.refreshGauges()
	return nil
}

// GetBlock returns the bytes stored under hash.
func (b *BlockStore) GetBlock(hash cluster.Hash) ([]byte, error) {
	start := time.Now()
	op := "get"

	data, err := b.store.Get(string(hash))
	if err != nil {
		b.observe(op, "miss", start)
		return nil, err
	}

	b.observe(op, "ok", start)
	return data, nil
}

// HasBlock reports whether hash is present, without transferring its bytes.
// MetadataStore uses this during the missing-blocks check.
func (b *BlockStore) HasBlock(hash cluster.Hash) bool {
	start := time.Now()
	op := "has"

	_, err := b.store.Get(string(hash))
	present := err == nil

	if present {
		b.observe(op, "ok", start)
	} else {
		b.observe(op, "miss", start)
	}
	return present
}

// Ping is a liveness/RTT probe: it does no work beyond confirming the
// BlockStore is reachable and responsive. The client's dist placement
// policy times how long this takes to pick the nearest shard.
func (b *BlockStore) Ping() {
	b.metrics.RequestsTotal.WithLabelValues("ping", "ok").Inc()
}

// Stats returns the underlying store's key/byte counts.
func (b *BlockStore) Stats() storage.StoreStats {
	return b.store.Stats()
}

func (b *BlockStore) observe(op, outcome string, start time.Time) {
	b.metrics.RequestsTotal.WithLabelValues(op, outcome).Inc()
	b.metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (b *BlockStore) refreshGauges() {
	stats := b.store.Stats()
	b.metrics.BlocksTotal.Set(float64(stats.Keys))
	b.metrics.BytesTotal.Set(float64(stats.Bytes))
}
