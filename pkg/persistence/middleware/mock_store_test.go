package middleware

import (
	"context"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

// rawStore records exactly what reaches the backend, without cloning,
// so tests can inspect the persisted envelope.
type rawStore struct {
	saved map[string]*domain.Session
}

func newRawStore() *rawStore {
	return &rawStore{saved: make(map[string]*domain.Session)}
}

func (s *rawStore) Save(_ context.Context, session *domain.Session) error {
	s.saved[session.ID] = session
	return nil
}

func (s *rawStore) Load(_ context.Context, sessionID string) (*domain.Session, error) {
	session, ok := s.saved[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *rawStore) Delete(_ context.Context, sessionID string) error {
	delete(s.saved, sessionID)
	return nil
}

func (s *rawStore) List(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.saved))
	for id := range s.saved {
		ids = append(ids, id)
	}
	return ids, nil
}
