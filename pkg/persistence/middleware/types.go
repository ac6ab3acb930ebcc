package middleware

import "github.com/voltwiz/voltwiz/pkg/ports"

// Middleware wraps a SessionStore to add behavior around persistence.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares so the first one listed is the outermost.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
