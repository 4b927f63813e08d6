// Package blockstore implements a single BlockStore shard.
//
// # Overview
//
// A BlockStore holds blocks: arbitrary byte strings, addressed by their
// SHA-256 hash, up to surfclient.BlockSize bytes (the chunking itself happens
// in the client; a BlockStore only ever sees whole blocks). It has four
// operations — PutBlock, GetBlock, HasBlock, Ping — and no awareness of
// files, versions, or other shards.
//
//	┌──────────────┐
//	│  BlockStore   │
//	└──────┬───────┘
//	       │
//	       ▼
//	┌──────────────┐
//	│ storage.Store │
//	└──────────────┘
//
// # Placement
//
// Which shard a given hash is supposed to live on is decided by the client
// (under either the hash or the dist policy) and recorded in the
// MetadataStore's placement map. A BlockStore never rejects a PutBlock
// for a hash it "shouldn't" have — it has no way to know the cluster's
// placement policy, and the protocol doesn't ask it to enforce one.
//
// # Metrics
//
// Each BlockStore is constructed with a *Metrics registered against a
// caller-supplied *prometheus.Registry, so cmd/blockstore can expose it on
// /metrics and tests can use an isolated registry per case.
package blockstore
