package api

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/docuport/docuport/internal/chat"
	"github.com/docuport/docuport/internal/config"
	"github.com/docuport/docuport/internal/embeddings"
	"github.com/docuport/docuport/internal/ingest"
	"github.com/docuport/docuport/internal/llm"
	"github.com/docuport/docuport/internal/retrieval"
	"github.com/docuport/docuport/internal/store"
	"github.com/docuport/docuport/internal/vecindex"
)

// ChatService manages per-session vector indexes and answers questions
// over them.
type ChatService interface {
	Ingest(ctx context.Context, sessionID string, paths []string) (int, error)
	Query(ctx context.Context, sessionID, question string) (string, error)
	Sessions() int
	Close() error
}

// sessionChat keeps one index manager per chat session. Each session's
// index lives in its own directory under the configured index root, so
// sessions never see each other's documents.
type sessionChat struct {
	indexRoot string
	embedder  embeddings.Service
	llm       llm.Service
	cfg       *config.Config
	history   *chat.SessionStore

	mu       sync.Mutex
	managers map[string]*vecindex.Manager
}

// NewChatService returns the session-scoped chat service.
func NewChatService(cfg *config.Config, embedder embeddings.Service, svc llm.Service) ChatService {
	return &sessionChat{
		indexRoot: cfg.Storage.IndexDir,
		embedder:  embedder,
		llm:       svc,
		cfg:       cfg,
		history:   chat.NewSessionStore(),
		managers:  make(map[string]*vecindex.Manager),
	}
}

func (s *sessionChat) sessionIndexDir(sessionID string) string {
	return filepath.Join(s.indexRoot, sessionID)
}

func (s *sessionChat) manager(sessionID string) (*vecindex.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.managers[sessionID]; ok {
		return m, nil
	}

	dir := s.sessionIndexDir(sessionID)
	backend, err := store.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening session index: %w", err)
	}
	m, err := vecindex.Open(dir, backend, s.embedder)
	if err != nil {
		backend.Close()
		return nil, err
	}
	m.BatchSize = s.cfg.Ingest.BatchSize
	s.managers[sessionID] = m
	return m, nil
}

// Ingest indexes the given document files into the session's index and
// returns how many chunks were newly added.
func (s *sessionChat) Ingest(ctx context.Context, sessionID string, paths []string) (int, error) {
	m, err := s.manager(sessionID)
	if err != nil {
		return 0, err
	}

	pipeline := ingest.New(m, s.cfg.Ingest.ChunkSize, s.cfg.Ingest.ChunkOverlap)
	total := 0
	for _, path := range paths {
		added, err := pipeline.File(ctx, path)
		if err != nil {
			return total, err
		}
		total += added
	}
	return total, nil
}

// Query answers a conversational question against the session's index.
func (s *sessionChat) Query(ctx context.Context, sessionID, question string) (string, error) {
	dir := s.sessionIndexDir(sessionID)
	facade, err := retrieval.Open(dir, s.embedder)
	if err != nil {
		return "", err
	}
	defer facade.Close()

	rag := chat.New(facade, s.llm, s.history)
	rag.TopK = s.cfg.Retrieval.TopK
	rag.ScoreThreshold = s.cfg.Retrieval.ScoreThreshold
	return rag.Answer(ctx, sessionID, question)
}

// Sessions returns the number of open session indexes.
func (s *sessionChat) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.managers)
}

// Close releases all session index managers.
func (s *sessionChat) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for id, m := range s.managers {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.managers, id)
	}
	return firstErr
}
