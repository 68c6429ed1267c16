// Package memory provides in-process session and webhook replay stores for
// development and single-instance runs without Redis.
package memory

import (
	"context"
	"sync"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// SessionStore is a mutex-guarded map. Values are deep-copied on the way in
// and out so callers never share a session with the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *SessionStore) Save(_ context.Context, sid string, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = session.Clone()
	return nil
}

func (s *SessionStore) Load(_ context.Context, sid string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sid]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *SessionStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
