package cluster

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Descriptor is the parsed cluster descriptor: the number of BlockStore
// shards, the MetadataStore address, and each shard's address. It is the
// only thing the core consumes — loading it from disk is the CLI's job.
//
// Wire format (one entry per line, order not significant, blank lines
// ignored):
//
//	B: <N>
//	metadata: <host>:<port>
//	block<i>: <host>:<port>      for i in 0..N-1
//
// The metadata line is optional to the parser; cmd/metadatastore listens on
// the address it names and does not start without it.
type Descriptor struct {
	BlockStores    map[ShardID]string
	Metadata       string
	NumBlockStores int
}

// ParseDescriptor reads and parses a cluster descriptor file at path.
func ParseDescriptor(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cluster: open descriptor: %w", err)
	}
	defer f.Close()
	return parseDescriptor(f)
}

func parseDescriptor(r *os.File) (*Descriptor, error) {
	d := &Descriptor{BlockStores: make(map[ShardID]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}

		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("cluster: malformed descriptor line %q", line)
		}

		switch {
		case key == "B":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("cluster: bad shard count %q: %w", value, err)
			}
			d.NumBlockStores = n
		case key == "metadata":
			d.Metadata = value
		case strings.HasPrefix(key, "block"):
			idx, err := strconv.Atoi(strings.TrimPrefix(key, "block"))
			if err != nil {
				return nil, fmt.Errorf("cluster: bad block store key %q: %w", key, err)
			}
			d.BlockStores[ShardID(idx)] = value
		default:
			return nil, fmt.Errorf("cluster: unrecognized descriptor key %q", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cluster: read descriptor: %w", err)
	}

	if d.NumBlockStores == 0 {
		return nil, fmt.Errorf("cluster: descriptor missing B: line")
	}
	if len(d.BlockStores) != d.NumBlockStores {
		return nil, fmt.Errorf("cluster: descriptor declares %d block stores but lists %d", d.NumBlockStores, len(d.BlockStores))
	}

	return d, nil
}

// BlockStoreAddr returns the host:port for shard s, or an error if s is out
// of the descriptor's range.
func (d *Descriptor) BlockStoreAddr(s ShardID) (string, error) {
	addr, ok := d.BlockStores[s]
	if !ok {
		return "", fmt.Errorf("cluster: no block store for shard %d", s)
	}
	return addr, nil
}

// SortedShardIDs returns the descriptor's shard ids in ascending order, for
// deterministic startup logging and test assertions over what is otherwise
// an unordered map.
func (d *Descriptor) SortedShardIDs() []ShardID {
	ids := make([]ShardID, 0, len(d.BlockStores))
	for id := range d.BlockStores {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
