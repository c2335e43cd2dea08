// Package api exposes the document portal over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docuport/docuport/internal/analyzer"
	"github.com/docuport/docuport/internal/comparator"
	"github.com/docuport/docuport/internal/config"
	"github.com/docuport/docuport/internal/docstore"
	"github.com/docuport/docuport/internal/extract"
)

// Analyzer is the document analysis dependency.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*analyzer.Analysis, error)
}

// Comparator is the document comparison dependency.
type Comparator interface {
	Compare(ctx context.Context, reference, actual string) ([]comparator.PageChange, error)
}

// Server is the HTTP server for the portal API.
type Server struct {
	cfg        *config.Config
	docs       *docstore.Store
	extractor  extract.Extractor
	analyzer   Analyzer
	comparator Comparator
	chat       ChatService
	version    string

	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(cfg *config.Config, docs *docstore.Store, an Analyzer, cmp Comparator, chat ChatService, version string) *Server {
	return &Server{
		cfg:        cfg,
		docs:       docs,
		extractor:  extract.New(),
		analyzer:   an,
		comparator: cmp,
		chat:       chat,
		version:    version,
	}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Post("/api/v1/compare", s.handleCompare)
	r.Post("/api/v1/chat/ingest", s.handleChatIngest)
	r.Post("/api/v1/chat/query", s.handleChatQuery)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	log.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
