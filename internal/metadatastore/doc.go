// Package metadatastore implements SurfStore's single authoritative
// MetadataStore: the source of truth for every file's version, hash list,
// and block placement.
//
// # Protocol
//
// ReadFile never fails — an unknown or deleted file simply reads back as an
// empty hash list. ModifyFile enforces two preconditions in a fixed order
// before committing: the proposed version must be exactly current+1, and
// every block named in the proposed hash list must already be present on
// its assigned shard. DeleteFile tombstones a file (version advances, hash
// list empties) but keeps the file's placement entries, since other files
// may share the same content-addressed blocks.
//
// A single mutex guards version, hash list, and placement together, so the
// two precondition checks and the commit happen as one atomic step — no
// other goroutine can observe or act on a half-applied modify.
//
// # Health monitoring
//
// HealthMonitor periodically polls each configured BlockStore shard's
// /health endpoint. This is purely operational: it has no bearing on the
// protocol above, which always trusts the shard a block claims to be on.
package metadatastore
