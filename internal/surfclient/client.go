// Package surfclient implements the SurfStore client: the Upload, Download,
// and Delete workflows that drive the MetadataStore/BlockStore protocol.
// See doc.go for complete package documentation.
package surfclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	"github.com/dreamware/surfstore/internal/blockstoreclient"
	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/metadataclient"
	"github.com/dreamware/surfstore/internal/surferrors"
	"github.com/rs/zerolog"
)

// BlockSize is the fixed chunk size content is split into before hashing.
// The final block of a file may be shorter.
const BlockSize = 4096

// Policy selects how a client picks the shard a block is stored on.
type Policy string

const (
	// PolicyHash routes each block independently: shard(h) = int(h,16) mod N.
	PolicyHash Policy = "hash"
	// PolicyDist RTT-probes every shard once per upload and routes every
	// block of that upload to the single nearest one.
	PolicyDist Policy = "dist"
)

// ParsePolicy validates a loc_method string from the CLI.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyHash, PolicyDist:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("surfclient: invalid loc_method %q, want %q or %q", s, PolicyHash, PolicyDist)
	}
}

// Client drives upload/download/delete against one cluster.
type Client struct {
	meta       *metadataclient.Client
	blocks     blockstoreclient.Pool
	descriptor *cluster.Descriptor
	log        zerolog.Logger
	policy     Policy
}

// New builds a Client for descriptor's cluster, using policy to choose
// block placement on upload.
func New(descriptor *cluster.Descriptor, policy Policy, log zerolog.Logger) *Client {
	return &Client{
		meta:       metadataclient.New(descriptor.Metadata),
		blocks:     blockstoreclient.NewPool(descriptor),
		descriptor: descriptor,
		policy:     policy,
		log:        log,
	}
}

// Outcome is the result the CLI prints: exactly "OK" or "Not Found".
type Outcome string

const (
	OutcomeOK       Outcome = "OK"
	OutcomeNotFound Outcome = "Not Found"
)

// Upload reads the local file at path, uploads its content, and returns
// OutcomeOK, or OutcomeNotFound if path is not a regular file.
func (c *Client) Upload(ctx context.Context, path string) (Outcome, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return OutcomeNotFound, nil
	}

	filename := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("surfclient: read %s: %w", path, err)
	}

	hashlist, content := splitIntoBlocks(data)

	curVersion, _, err := c.meta.ReadFile(ctx, filename)
	if err != nil {
		return "", err
	}

	shardFor, err := c.shardSelector(ctx, hashlist)
	if err != nil {
		return "", err
	}

	placement := make([]cluster.HashShard, len(hashlist))
	for i, h := range hashlist {
		placement[i] = cluster.HashShard{Hash: h, Shard: shardFor(h)}
	}

	version := curVersion + 1
	for {
		err := c.meta.ModifyFile(ctx, filename, version, placement)
		if err == nil {
			c.log.Info().Str("file", filename).Uint64("version", version).Msg("upload accepted")
			return OutcomeOK, nil
		}

		var missingBlocks *surferrors.MissingBlocksError
		var wrongVersion *surferrors.WrongVersionError
		switch {
		case errors.As(err, &missingBlocks):
			if err := c.pushBlocks(ctx, missingBlocks.List, content); err != nil {
				return "", err
			}
		case errors.As(err, &wrongVersion):
			version = wrongVersion.Current + 1
		default:
			return "", err
		}
	}
}

// pushBlocks stores every (hash, shard) pair in list, concurrently with at
// most maxConcurrentPushes requests in flight, using content already read
// off disk during Upload.
func (c *Client) pushBlocks(ctx context.Context, list []cluster.HashShard, content map[cluster.Hash][]byte) error {
	const maxConcurrentPushes = 8

	var wg sync.WaitGroup
	errs := make([]error, len(list))
	sem := make(chan struct{}, maxConcurrentPushes)

	for i, hs := range list {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, hs cluster.HashShard) {
			defer wg.Done()
			defer func() { <-sem }()
			client := c.blocks.Get(hs.Shard)
			if client == nil {
				errs[i] = fmt.Errorf("surfclient: no block store for shard %d", hs.Shard)
				return
			}
			errs[i] = client.PutBlock(ctx, hs.Hash, content[hs.Hash])
		}(i, hs)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Download fetches filename's current content from the cluster and writes
// it to dir/filename, reusing any matching blocks already present there.
func (c *Client) Download(ctx context.Context, filename, dir string) (Outcome, error) {
	_, placement, err := c.meta.ReadFile(ctx, filename)
	if err != nil {
		return "", err
	}
	if len(placement) == 0 {
		return OutcomeNotFound, nil
	}

	dest := filepath.Join(dir, filename)
	have := localBlockCache(dest)

	buf := make([]byte, 0, len(placement)*BlockSize)
	for _, hs := range placement {
		if block, ok := have[hs.Hash]; ok {
			buf = append(buf, block...)
			continue
		}
		client := c.blocks.Get(hs.Shard)
		if client == nil {
			return "", fmt.Errorf("surfclient: no block store for shard %d", hs.Shard)
		}
		block, err := client.GetBlock(ctx, hs.Hash)
		if err != nil {
			return "", err
		}
		buf = append(buf, block...)
	}

	if err := os.WriteFile(dest, buf, 0o644); err != nil {
		return "", fmt.Errorf("surfclient: write %s: %w", dest, err)
	}
	return OutcomeOK, nil
}

// localBlockCache hash-splits an existing local file, if any, so Download
// can reuse blocks that already match instead of re-fetching them.
func localBlockCache(path string) map[cluster.Hash][]byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	hashlist, content := splitIntoBlocks(data)
	have := make(map[cluster.Hash][]byte, len(hashlist))
	for _, h := range hashlist {
		have[h] = content[h]
	}
	return have
}

// Delete removes filename from the cluster.
func (c *Client) Delete(ctx context.Context, filename string) (Outcome, error) {
	curVersion, placement, err := c.meta.ReadFile(ctx, filename)
	if err != nil {
		return "", err
	}
	if curVersion == 0 && len(placement) == 0 {
		return OutcomeNotFound, nil
	}

	version := curVersion + 1
	for {
		err := c.meta.DeleteFile(ctx, filename, version)
		if err == nil {
			return OutcomeOK, nil
		}

		var wrongVersion *surferrors.WrongVersionError
		switch {
		case errors.As(err, &wrongVersion):
			version = wrongVersion.Current + 1
		case errors.Is(err, surferrors.ErrNotFound):
			return OutcomeNotFound, nil
		default:
			return "", err
		}
	}
}

// shardSelector returns a function mapping each block hash to the shard it
// should be stored on, per the client's configured policy.
func (c *Client) shardSelector(ctx context.Context, hashlist []cluster.Hash) (func(cluster.Hash) cluster.ShardID, error) {
	switch c.policy {
	case PolicyDist:
		nearest, err := c.nearestShard(ctx)
		if err != nil {
			return nil, err
		}
		return func(cluster.Hash) cluster.ShardID { return nearest }, nil
	default:
		n := c.descriptor.NumBlockStores
		return func(h cluster.Hash) cluster.ShardID { return shardForHash(h, n) }, nil
	}
}

// nearestShard RTT-probes every BlockStore once and returns the one with
// the minimum measured round-trip.
func (c *Client) nearestShard(ctx context.Context) (cluster.ShardID, error) {
	var best cluster.ShardID
	var bestRTT int64 = -1

	for id := cluster.ShardID(0); int(id) < c.descriptor.NumBlockStores; id++ {
		client := c.blocks.Get(id)
		if client == nil {
			return 0, fmt.Errorf("surfclient: no block store for shard %d", id)
		}
		rtt, err := client.Ping(ctx)
		if err != nil {
			return 0, err
		}
		if bestRTT == -1 || rtt.Nanoseconds() < bestRTT {
			bestRTT = rtt.Nanoseconds()
			best = id
		}
	}
	return best, nil
}

// shardForHash implements the hash policy: shard(h) = int(h,16) mod N.
func shardForHash(h cluster.Hash, n int) cluster.ShardID {
	value := new(big.Int)
	value.SetString(string(h), 16)
	mod := big.NewInt(int64(n))
	return cluster.ShardID(new(big.Int).Mod(value, mod).Int64())
}

// splitIntoBlocks chunks data into BlockSize pieces (the last may be
// shorter), computing each block's hash and an ordered hash list. An empty
// file yields an empty hash list.
func splitIntoBlocks(data []byte) ([]cluster.Hash, map[cluster.Hash][]byte) {
	var hashlist []cluster.Hash
	content := make(map[cluster.Hash][]byte)

	for offset := 0; offset < len(data); offset += BlockSize {
		end := offset + BlockSize
		if end > len(data) {
			end = len(data)
		}
		block := data[offset:end]
		hash := hashBlock(block)
		hashlist = append(hashlist, hash)
		content[hash] = bytes.Clone(block)
	}
	return hashlist, content
}

func hashBlock(block []byte) cluster.Hash {
	sum := sha256.Sum256(block)
	return cluster.Hash(hex.EncodeToString(sum[:]))
}
