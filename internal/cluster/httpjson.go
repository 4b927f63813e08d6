package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// httpClient is the shared HTTP client used for all inter-service
// communication (client → MetadataStore, client → BlockStore, MetadataStore
// → BlockStore). A bounded timeout keeps a wedged peer from hanging a
// command forever; the dist policy's RTT probe (a GET /ping sent through
// Do) is subject to the same timeout.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// RequestIDHeader carries a per-call correlation id on every outbound call.
// It never carries protocol semantics — stripping it changes nothing about
// correctness. The servers in this repository neither read nor log it.
const RequestIDHeader = "X-Surfstore-Request-Id"

// NewRequestID returns a fresh correlation id for attaching to an outbound
// call.
func NewRequestID() string {
	return uuid.NewString()
}

// HTTPError is returned by PostJSON/GetJSON when the peer responds with a
// non-2xx status (Do returns the raw status instead, and its callers build
// an HTTPError themselves). Callers that need to distinguish protocol errors
// (WRONG_VERSION, MISSING_BLOCKS, NOT_FOUND) from transport failures inspect
// Status and Body via the surferrors decoders; anything else is a plain
// transport-class failure per spec.md §7.
type HTTPError struct {
	URL    string
	Body   []byte
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %s: status %d: %s", e.URL, e.Status, string(e.Body))
}

// PostJSON sends a JSON-encoded POST request and decodes a JSON response
// into out (if non-nil). On a non-2xx response it returns *HTTPError with
// the response body intact, so callers can parse a structured error payload
// out of it before falling back to treating it as a transport failure.
func PostJSON(ctx context.Context, url string, body, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("cluster: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("cluster: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, NewRequestID())

	return doJSON(req, url, out)
}

// GetJSON sends a GET request and decodes a JSON response into out.
func GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("cluster: build request: %w", err)
	}
	req.Header.Set(RequestIDHeader, NewRequestID())

	return doJSON(req, url, out)
}

func doJSON(req *http.Request, url string, out any) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cluster: request %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cluster: read response %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{URL: url, Status: resp.StatusCode, Body: respBody}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("cluster: decode response %s: %w", url, err)
	}
	return nil
}

// Do sends a prebuilt request and returns the raw response body and status,
// used for the octet-stream block GET/PUT endpoints where the payload isn't
// JSON.
func Do(req *http.Request) (status int, body []byte, err error) {
	req.Header.Set(RequestIDHeader, NewRequestID())
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("cluster: request %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("cluster: read response %s: %w", req.URL, err)
	}
	return resp.StatusCode, b, nil
}
