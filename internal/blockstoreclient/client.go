// Package blockstoreclient is the HTTP client a MetadataStore or a
// surfclient.Client uses to talk to a single BlockStore shard. See doc.go.
package blockstoreclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dreamware/surfstore/internal/cluster"
)

// Client talks to one BlockStore shard over HTTP. The zero value is not
// usable; construct with New.
type Client struct {
	addr string
}

// New returns a Client for the BlockStore listening at addr (host:port, with
// or without a scheme).
func New(addr string) *Client {
	return &Client{addr: normalizeAddr(addr)}
}

func normalizeAddr(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/")
	}
	return "http://" + strings.TrimRight(addr, "/")
}

func (c *Client) blockURL(hash cluster.Hash) string {
	return fmt.Sprintf("%s/blocks/%s", c.addr, hash)
}

// PutBlock stores data under hash on the shard.
func (c *Client) PutBlock(ctx context.Context, hash cluster.Hash, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.blockURL(hash), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("blockstoreclient: build put request: %w", err)
	}

	status, body, err := cluster.Do(req)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return &cluster.HTTPError{URL: c.blockURL(hash), Status: status, Body: body}
	}
	return nil
}

// GetBlock fetches the block with the given hash. It returns ErrBlockNotFound
// if the shard doesn't have it.
func (c *Client) GetBlock(ctx context.Context, hash cluster.Hash) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.blockURL(hash), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("blockstoreclient: build get request: %w", err)
	}

	status, body, err := cluster.Do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrBlockNotFound
	}
	if status != http.StatusOK {
		return nil, &cluster.HTTPError{URL: c.blockURL(hash), Status: status, Body: body}
	}
	return body, nil
}

// HasBlock reports whether the shard already holds hash, via a HEAD request
// so no bytes cross the wire. This is the primitive ModifyFile's
// block-presence check is built on.
func (c *Client) HasBlock(ctx context.Context, hash cluster.Hash) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.blockURL(hash), http.NoBody)
	if err != nil {
		return false, fmt.Errorf("blockstoreclient: build head request: %w", err)
	}

	status, _, err := cluster.Do(req)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("blockstoreclient: unexpected status %d checking %s", status, hash)
	}
}

// Ping probes the shard's RTT, used by the client's dist placement policy to
// pick the nearest shard for an upload.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/ping", http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("blockstoreclient: build ping request: %w", err)
	}

	status, body, err := cluster.Do(req)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, &cluster.HTTPError{URL: c.addr + "/ping", Status: status, Body: body}
	}
	return time.Since(start), nil
}

// ErrBlockNotFound is returned by GetBlock when the shard doesn't hold the
// requested hash.
var ErrBlockNotFound = errors.New("blockstoreclient: block not found")
