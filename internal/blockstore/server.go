package blockstore

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/storage"
	"github.com/rs/zerolog"
)

// Server exposes a BlockStore over HTTP:
//
//	PUT  /blocks/{hash}   store a block, body is the raw bytes
//	GET  /blocks/{hash}   fetch a block
//	HEAD /blocks/{hash}   check presence without transferring bytes
//	GET  /ping            liveness / RTT probe
//	GET  /health          liveness for operational monitoring
//	GET  /metrics         Prometheus exposition
type Server struct {
	store *BlockStore
	log   zerolog.Logger
	mux   *http.ServeMux
}

// NewServer builds a Server that serves store's blocks and metrics.
func NewServer(store *BlockStore, log zerolog.Logger, metricsHandler http.Handler) *Server {
	s := &Server{store: store, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/blocks/", s.handleBlock)
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", metricsHandler)
	s.mux = mux

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	hash := cluster.Hash(strings.TrimPrefix(r.URL.Path, "/blocks/"))
	if hash == "" {
		http.Error(w, "missing hash", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handlePut(w, r, hash)
	case http.MethodGet:
		s.handleGet(w, hash)
	case http.MethodHead:
		s.handleHead(w, hash)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request, hash cluster.Hash) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := s.store.PutBlock(hash, data); err != nil {
		s.log.Warn().Err(err).Str("hash", string(hash)).Msg("put block failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGet(w http.ResponseWriter, hash cluster.Hash) {
	data, err := s.store.GetBlock(hash)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			http.Error(w, "block not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}

func (s *Server) handleHead(w http.ResponseWriter, hash cluster.Hash) {
	if s.store.HasBlock(hash) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	s.store.Ping()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		LatencyMS int64 `json:"latency_ms"`
	}{LatencyMS: time.Since(start).Milliseconds()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
