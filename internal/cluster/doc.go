// Package cluster provides the types and wire helpers shared by every
// SurfStore role: the cluster descriptor format, the content-addressing
// vocabulary (Hash, ShardID, HashShard), and the JSON-over-HTTP plumbing
// used to talk to a BlockStore or the MetadataStore.
//
// # Cluster descriptor
//
// Every role is started with a path to a line-oriented descriptor file:
//
//	B: 3
//	metadata: localhost:9000
//	block0: localhost:9001
//	block1: localhost:9002
//	block2: localhost:9003
//
// ParseDescriptor loads this into a Descriptor; the same file is handed to
// every role. The parser accepts a descriptor with or without a `metadata:`
// line. cmd/metadatastore listens on the address that line names and does
// not start without it.
//
// # Transport
//
// SurfStore's RPC surface is JSON over HTTP: small, inspectable, trivially
// proxyable. PostJSON and GetJSON wrap the request/response cycle and
// surface non-2xx responses as *HTTPError so that callers can recover the
// structured WRONG_VERSION / MISSING_BLOCKS / NOT_FOUND payload the
// MetadataStore embeds in the body, per spec.md §7.
package cluster
