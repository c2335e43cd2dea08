// Package chat implements conversational retrieval-augmented question
// answering with per-session history.
package chat

import (
	"sync"

	"github.com/docuport/docuport/internal/llm"
)

// SessionStore keeps chat histories keyed by session id. Histories are
// in-memory; restarting the server starts conversations fresh while the
// underlying index persists.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message

	// MaxTurns caps the retained history per session; older turns are
	// dropped first. Zero means unlimited.
	MaxTurns int
}

// NewSessionStore returns an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]llm.Message),
		MaxTurns: 20,
	}
}

// History returns a copy of the session's messages, oldest first.
func (s *SessionStore) History(sessionID string) []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[sessionID]
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds messages to a session's history, trimming to MaxTurns.
func (s *SessionStore) Append(sessionID string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.sessions[sessionID], msgs...)
	if s.MaxTurns > 0 && len(history) > s.MaxTurns {
		history = history[len(history)-s.MaxTurns:]
	}
	s.sessions[sessionID] = history
}

// Reset clears a session's history.
func (s *SessionStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of active sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
