package httpapi

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

// StreamManager fans step-change events out to active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // sessionID -> set of channels
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a listener for one session and returns its channel
// plus a cancel function that must be called when the client goes away.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends a message to every subscriber of the session. Slow
// clients with a full buffer miss the message rather than block the turn.
func (sm *StreamManager) Broadcast(sessionID, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Hooks returns lifecycle hooks that forward step changes to subscribers.
// Register them on the wizard that this manager's server fronts.
func (sm *StreamManager) Hooks() *domain.LifecycleHooks {
	return &domain.LifecycleHooks{
		OnStepChange: func(_ context.Context, e *domain.StepEvent) {
			payload, err := json.Marshal(domain.StepChange{
				SessionID: e.SessionID,
				From:      e.From,
				To:        e.To,
			})
			if err != nil {
				return
			}
			sm.Broadcast(e.SessionID, string(payload))
		},
	}
}
