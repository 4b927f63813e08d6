// Package storage defines the abstract key-value storage interface used by a
// BlockStore shard, and provides an in-memory implementation.
//
// # Overview
//
// A BlockStore shard's only job is to hold content-addressed blocks: hash in,
// bytes out. The Store interface captures exactly that, independent of what
// backs it, so a shard can be tested against MemoryStore and later pointed at
// a persistent backend without touching call sites.
//
//	┌─────────────────┐
//	│   BlockStore     │
//	└────────┬─────────┘
//	         │
//	         ▼
//	┌─────────────────┐
//	│  storage.Store   │
//	└────────┬─────────┘
//	         │
//	         ▼
//	┌─────────────────┐
//	│   MemoryStore    │
//	└─────────────────┘
//
// # Error handling
//
// ErrKeyNotFound is the one sentinel the interface defines. Every
// implementation must return it from Get when the key is absent so callers
// can use errors.Is without caring which backend is in play.
//
// # Concurrency
//
// All Store methods must be safe for concurrent use. MemoryStore uses a
// sync.RWMutex and copies values in and out so that a caller mutating a
// returned slice can never corrupt the store's own copy.
package storage
