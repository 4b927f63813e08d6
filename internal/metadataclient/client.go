// Package metadataclient is the HTTP client a surfclient.Client uses to
// talk to the MetadataStore. See doc.go.
package metadataclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/surferrors"
)

// Client talks to the MetadataStore over HTTP.
type Client struct {
	addr string
}

// New returns a Client for the MetadataStore listening at addr.
func New(addr string) *Client {
	return &Client{addr: normalizeAddr(addr)}
}

func normalizeAddr(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/")
	}
	return "http://" + strings.TrimRight(addr, "/")
}

type readFileResponse struct {
	Placement []cluster.HashShard `json:"placement"`
	Version   uint64              `json:"version"`
}

type modifyFileRequest struct {
	Placement []cluster.HashShard `json:"placement"`
	Version   uint64              `json:"version"`
}

type deleteFileRequest struct {
	Version uint64 `json:"version"`
}

// ReadFile returns name's current version and ordered (hash, shard) list.
// It never returns an error for an unknown or deleted file: both read back
// as version 0 (or the tombstone version) with an empty list.
func (c *Client) ReadFile(ctx context.Context, name string) (uint64, []cluster.HashShard, error) {
	var out readFileResponse
	url := fmt.Sprintf("%s/files/%s", c.addr, name)
	if err := cluster.GetJSON(ctx, url, &out); err != nil {
		return 0, nil, err
	}
	return out.Version, out.Placement, nil
}

// ModifyFile proposes version and placement as name's new contents. On
// rejection it returns *surferrors.WrongVersionError or
// *surferrors.MissingBlocksError; any other error is a transport failure.
func (c *Client) ModifyFile(ctx context.Context, name string, version uint64, placement []cluster.HashShard) error {
	url := fmt.Sprintf("%s/files/%s/modify", c.addr, name)
	err := cluster.PostJSON(ctx, url, modifyFileRequest{Version: version, Placement: placement}, nil)
	return translateProtocolError(err)
}

// DeleteFile tombstones name at version. On rejection it returns
// surferrors.ErrNotFound or *surferrors.WrongVersionError.
func (c *Client) DeleteFile(ctx context.Context, name string, version uint64) error {
	url := fmt.Sprintf("%s/files/%s/delete", c.addr, name)
	err := cluster.PostJSON(ctx, url, deleteFileRequest{Version: version}, nil)
	return translateProtocolError(err)
}

// translateProtocolError turns a non-2xx *cluster.HTTPError carrying a
// recognized surferrors wire payload into its typed Go error. Any other
// error (including an *HTTPError with an unrecognized body) passes through
// unchanged as a plain transport failure.
func translateProtocolError(err error) error {
	if err == nil {
		return nil
	}
	var httpErr *cluster.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}
	if decoded := surferrors.FromHTTP(httpErr.Status, httpErr.Body); decoded != nil {
		return decoded
	}
	return err
}
