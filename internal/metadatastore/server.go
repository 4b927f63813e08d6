package metadatastore

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/surferrors"
	"github.com/rs/zerolog"
)

// readFileResponse is the JSON body of a successful GET /files/{name}.
type readFileResponse struct {
	Placement []cluster.HashShard `json:"placement"`
	Version   uint64              `json:"version"`
}

// modifyFileRequest is the JSON body of POST /files/{name}/modify.
type modifyFileRequest struct {
	Placement []cluster.HashShard `json:"placement"`
	Version   uint64              `json:"version"`
}

// deleteFileRequest is the JSON body of POST /files/{name}/delete.
type deleteFileRequest struct {
	Version uint64 `json:"version"`
}

// Server exposes a MetadataStore over HTTP:
//
//	GET  /files/{name}         read_file, always 200
//	POST /files/{name}/modify  modify_file
//	POST /files/{name}/delete  delete_file
//	GET  /health
//	GET  /metrics
type Server struct {
	store *MetadataStore
	log   zerolog.Logger
	mux   *http.ServeMux
}

// NewServer builds a Server over store.
func NewServer(store *MetadataStore, log zerolog.Logger, metricsHandler http.Handler) *Server {
	s := &Server{store: store, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/files/", s.handleFile)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", metricsHandler)
	s.mux = mux

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/files/")
	name, action, hasAction := strings.Cut(rest, "/")
	if name == "" {
		http.Error(w, "missing file name", http.StatusBadRequest)
		return
	}

	switch {
	case !hasAction && r.Method == http.MethodGet:
		s.handleRead(w, name)
	case hasAction && action == "modify" && r.Method == http.MethodPost:
		s.handleModify(w, r, name)
	case hasAction && action == "delete" && r.Method == http.MethodPost:
		s.handleDelete(w, r, name)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRead(w http.ResponseWriter, name string) {
	version, placement := s.store.ReadFile(name)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(readFileResponse{Version: version, Placement: placement})
}

func (s *Server) handleModify(w http.ResponseWriter, r *http.Request, name string) {
	var req modifyFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	if err := s.store.ModifyFile(r.Context(), name, req.Version, req.Placement); err != nil {
		if surferrors.WriteHTTP(w, err) {
			return
		}
		s.log.Error().Err(err).Str("file", name).Msg("modify_file failed unexpectedly")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, name string) {
	var req deleteFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteFile(name, req.Version); err != nil {
		if surferrors.WriteHTTP(w, err) {
			return
		}
		s.log.Error().Err(err).Str("file", name).Msg("delete_file failed unexpectedly")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
