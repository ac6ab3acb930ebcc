package ports

import (
	"context"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

// SessionStore defines the interface for persisting conversation sessions.
// The core itself keeps no state beyond what lives behind this port; the
// default adapter is in-memory and volatile by design.
type SessionStore interface {
	// Save persists the session under its ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves the session for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session, its workflow state and history, for that key.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of known sessions.
	List(ctx context.Context) ([]string, error)
}
