// Package surfclient implements the three end-user operations of SurfStore:
// Upload, Download, and Delete. It is the only package that speaks to both
// the MetadataStore and every BlockStore shard in one call.
//
// # Shard selection
//
// A Client is configured once, at construction, with a Policy: hash routes
// each block independently by its numeric value mod the shard count; dist
// RTT-probes every shard once per upload and sends every block of that
// upload to the nearest one. Readers never re-derive placement — they
// always use whatever MetadataStore recorded, so the two policies are
// interchangeable from the server's point of view.
//
// # Retry loops
//
// Upload retries on MISSING_BLOCKS by pushing exactly the named blocks and
// resubmitting the same version, and on WRONG_VERSION by resubmitting the
// same content at current+1. Delete retries only on WRONG_VERSION. Both
// loops terminate because each retry strictly narrows the gap to success:
// a missing block, once pushed, stays present; a version, once observed,
// only increases.
package surfclient
