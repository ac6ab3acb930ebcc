// Package memory provides the default, volatile session store.
// A process restart loses all in-flight sessions; that is a design
// property of the core, not a gap.
package memory

import (
	"context"
	"sync"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

// Store implements ports.SessionStore in memory. All methods are safe
// for concurrent use; sessions are cloned on both save and load so
// callers never share mutable state with the store.
type Store struct {
	data map[string]*domain.Session
	mu   sync.RWMutex
}

// NewStore creates an empty volatile store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Session),
	}
}

// Save persists the session in memory.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	// Deep copy so later caller mutations don't leak into the store.
	copied := session.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[session.ID] = copied
	return nil
}

// Load retrieves the session from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so the caller can't mutate store state by pointer.
	return session.Clone(), nil
}

// Delete removes the session's workflow state and history.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
