// Package blockstoreclient provides a thin HTTP client for a single
// BlockStore shard's wire API (PUT/GET/HEAD /blocks/{hash}, GET /ping).
//
// MetadataStore uses HasBlock for the block-presence check in ModifyFile;
// surfclient uses the full set (PutBlock, GetBlock, HasBlock, Ping) to drive
// upload, download, and the dist placement policy's RTT probe.
package blockstoreclient
