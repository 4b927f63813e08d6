// Package metadataclient provides an HTTP client for the MetadataStore's
// wire API (GET /files/{name}, POST /files/{name}/modify, POST
// /files/{name}/delete), translating its JSON error payloads back into the
// typed errors in internal/surferrors.
package metadataclient
