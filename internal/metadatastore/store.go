// Package metadatastore implements the single authoritative MetadataStore:
// per-file version/hashlist records and the global block placement map. See
// doc.go for complete package documentation.
package metadatastore

import (
	"context"
	"sync"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/surferrors"
)

// fileRecord is one file's metadata. A record with Version 0 and an empty
// HashList means "never uploaded"; a record with Version > 0 and an empty
// HashList means "deleted" (tombstoned). The zero value satisfies the
// never-uploaded case without an explicit entry in MetadataStore.files.
type fileRecord struct {
	HashList []cluster.Hash
	Version  uint64
}

// PresenceChecker reports whether a block hash is already stored on a given
// shard. ModifyFile uses it for the block-presence check; BlockStore clients
// implement it over HTTP, tests fake it directly.
type PresenceChecker interface {
	HasBlock(ctx context.Context, shard cluster.ShardID, hash cluster.Hash) (bool, error)
}

// MetadataStore is the single authoritative source of file versions, hash
// lists, and block placement. One mutex guards all three, matching the
// protocol's requirement that a file's version check, block-presence check,
// and commit happen as one atomic step.
type MetadataStore struct {
	checker   PresenceChecker
	files     map[string]*fileRecord
	placement map[cluster.Hash]cluster.ShardID
	metrics   *Metrics
	mu        sync.Mutex
}

// New returns an empty MetadataStore that checks block presence via checker.
func New(checker PresenceChecker, metrics *Metrics) *MetadataStore {
	return &MetadataStore{
		files:     make(map[string]*fileRecord),
		placement: make(map[cluster.Hash]cluster.ShardID),
		checker:   checker,
		metrics:   metrics,
	}
}

// ReadFile returns name's current version and ordered (hash, shard) list.
// It never fails: an unknown file reads as version 0 with an empty list,
// and a deleted file reads as its tombstone version with an empty list.
func (m *MetadataStore) ReadFile(name string) (uint64, []cluster.HashShard) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.files[name]
	if !ok {
		return 0, nil
	}

	list := make([]cluster.HashShard, 0, len(rec.HashList))
	for _, h := range rec.HashList {
		list = append(list, cluster.HashShard{Hash: h, Shard: m.placement[h]})
	}
	return rec.Version, list
}

// ModifyFile attempts to set name's contents to list at version version.
//
// It enforces, in order:
//  1. version must be exactly the file's current version + 1, else
//     *surferrors.WrongVersionError{Current}.
//  2. every hash in list must already be present on its named shard, else
//     *surferrors.MissingBlocksError{List} naming every missing pair.
//
// Only once both checks pass does it commit: version, hash list, and
// placement entries update atomically under the store's single mutex.
func (m *MetadataStore) ModifyFile(ctx context.Context, name string, version uint64, list []cluster.HashShard) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := uint64(0)
	if rec, ok := m.files[name]; ok {
		current = rec.Version
	}
	if version != current+1 {
		m.metrics.modifyRejected("wrong_version")
		return &surferrors.WrongVersionError{Current: current}
	}

	var missing []cluster.HashShard
	for _, hs := range list {
		present, err := m.checker.HasBlock(ctx, hs.Shard, hs.Hash)
		if err != nil || !present {
			missing = append(missing, hs)
		}
	}
	if len(missing) > 0 {
		m.metrics.modifyRejected("missing_blocks")
		return &surferrors.MissingBlocksError{List: missing}
	}

	hashes := make([]cluster.Hash, len(list))
	for i, hs := range list {
		hashes[i] = hs.Hash
		m.placement[hs.Hash] = hs.Shard
	}

	if _, existed := m.files[name]; !existed {
		m.metrics.FilesTrackedTotal.Inc()
	}
	m.files[name] = &fileRecord{Version: version, HashList: hashes}
	m.metrics.ModifyAcceptedTotal.Inc()
	return nil
}

// DeleteFile tombstones name at version version: the hash list empties out
// but placement entries for its blocks are retained, since other files may
// still reference the same content-addressed blocks.
//
// It enforces, in order:
//  1. name must have an existing record, else surferrors.ErrNotFound.
//  2. version must be exactly the file's current version + 1, else
//     *surferrors.WrongVersionError{Current}.
func (m *MetadataStore) DeleteFile(name string, version uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.files[name]
	if !ok {
		m.metrics.deleteRejected("not_found")
		return surferrors.ErrNotFound
	}

	if version != rec.Version+1 {
		m.metrics.deleteRejected("wrong_version")
		return &surferrors.WrongVersionError{Current: rec.Version}
	}

	rec.Version = version
	rec.HashList = nil
	m.metrics.DeleteAcceptedTotal.Inc()
	return nil
}
