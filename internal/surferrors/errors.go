// Package surferrors defines the MetadataStore's protocol-level error types
// and their JSON wire encoding. See doc.go for complete package documentation.
package surferrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dreamware/surfstore/internal/cluster"
)

// ErrNotFound is returned by DeleteFile when the named file has no record in
// the MetadataStore (it was never uploaded). ReadFile never returns it: an
// unknown file reads back as version 0 with an empty hash list.
var ErrNotFound = errors.New("surfstore: file not found")

// WrongVersionError is returned by ModifyFile when the caller's proposed
// version does not immediately follow the file's current version. Current
// holds the version the MetadataStore actually has on record; a client
// retries with Current+1.
type WrongVersionError struct {
	Current uint64
}

func (e *WrongVersionError) Error() string {
	return fmt.Sprintf("surfstore: wrong version, current is %d", e.Current)
}

// MissingBlocksError is returned by ModifyFile when one or more blocks named
// in the proposed hash list are not present in their assigned BlockStore
// shard. List carries each missing block's hash and the shard it was
// expected to land on, so the client knows exactly where to push it.
type MissingBlocksError struct {
	List []cluster.HashShard
}

func (e *MissingBlocksError) Error() string {
	return fmt.Sprintf("surfstore: %d missing block(s)", len(e.List))
}

// errorKind discriminates the wire payload's shape. A numeric code would
// work just as well, but a string keeps curl output self-describing.
type errorKind string

const (
	kindWrongVersion  errorKind = "wrong_version"
	kindMissingBlocks errorKind = "missing_blocks"
	kindFileNotFound  errorKind = "file_not_found"
)

// wirePayload is the JSON body MetadataStore writes alongside a non-2xx
// status for any of the three protocol errors. Fields not relevant to the
// kind are simply omitted.
type wirePayload struct {
	ErrorType      errorKind          `json:"error_type"`
	CurrentVersion *uint64             `json:"current_version,omitempty"`
	MissingBlocks  []cluster.HashShard `json:"missing_blocks,omitempty"`
}

// WriteHTTP writes err to w as a structured JSON payload with the status
// code the protocol assigns it (409 for WRONG_VERSION/MISSING_BLOCKS, 404
// for NOT_FOUND). It reports whether err was one of the three recognized
// protocol errors; callers should fall back to a 500 for anything else.
func WriteHTTP(w http.ResponseWriter, err error) bool {
	var wrongVersion *WrongVersionError
	var missingBlocks *MissingBlocksError

	var payload wirePayload
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &wrongVersion):
		status = http.StatusConflict
		current := wrongVersion.Current
		payload = wirePayload{ErrorType: kindWrongVersion, CurrentVersion: &current}
	case errors.As(err, &missingBlocks):
		status = http.StatusConflict
		payload = wirePayload{ErrorType: kindMissingBlocks, MissingBlocks: missingBlocks.List}
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
		payload = wirePayload{ErrorType: kindFileNotFound}
	default:
		return false
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
	return true
}

// FromHTTP decodes body (the response body of a non-2xx MetadataStore
// response) back into the matching Go error. If body isn't a recognized
// protocol payload, it returns nil so the caller treats the response as a
// plain transport failure.
func FromHTTP(status int, body []byte) error {
	var payload wirePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}

	switch payload.ErrorType {
	case kindWrongVersion:
		var current uint64
		if payload.CurrentVersion != nil {
			current = *payload.CurrentVersion
		}
		return &WrongVersionError{Current: current}
	case kindMissingBlocks:
		return &MissingBlocksError{List: payload.MissingBlocks}
	case kindFileNotFound:
		return ErrNotFound
	default:
		return nil
	}
}
