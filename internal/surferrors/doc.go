// Package surferrors gives the three MetadataStore protocol errors —
// WRONG_VERSION, MISSING_BLOCKS, NOT_FOUND — a typed Go representation and a
// stable JSON wire encoding, replacing the stringified exception payloads
// the original Python implementation sent.
//
// A handler returns one of these errors (or wraps it with fmt.Errorf's %w)
// and calls WriteHTTP to serialize it with the right status code. A client
// calls FromHTTP on a non-2xx response to recover the typed error and decide
// whether to retry.
package surferrors
