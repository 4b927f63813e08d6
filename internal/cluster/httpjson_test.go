package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type echoPayload struct {
	Name string `json:"name"`
}

func TestPostJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NotEmpty(t, r.Header.Get(RequestIDHeader))

		var in echoPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(echoPayload{Name: "echo:" + in.Name})
	}))
	defer srv.Close()

	var out echoPayload
	err := PostJSON(context.Background(), srv.URL, echoPayload{Name: "block"}, &out)
	require.NoError(t, err)
	require.Equal(t, "echo:block", out.Name)
}

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(echoPayload{Name: "hello"})
	}))
	defer srv.Close()

	var out echoPayload
	err := GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	require.Equal(t, "hello", out.Name)
}

func TestPostJSONNonOKStatusReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error_type":"wrong_version","current_version":4}`))
	}))
	defer srv.Close()

	err := PostJSON(context.Background(), srv.URL, echoPayload{Name: "x"}, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusConflict, httpErr.Status)
	require.Contains(t, string(httpErr.Body), "wrong_version")
}

func TestGetJSONMalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var out echoPayload
	err := GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
}

func TestPostJSONUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	err := PostJSON(context.Background(), addr, echoPayload{}, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.False(t, errors.As(err, &httpErr))
}

func TestDoRawBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL, nil)
	require.NoError(t, err)

	status, body, err := Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "payload", string(body))
}

func TestNewRequestIDUnique(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()
	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}
