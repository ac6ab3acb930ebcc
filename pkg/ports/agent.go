package ports

import (
	"context"
	"encoding/json"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

// AgentRequest carries one reasoning call's inputs. Instructions is the
// opaque role payload; Context is a structured snapshot of session state
// serialized for the service. The core never manipulates prompt text.
type AgentRequest struct {
	Role         domain.Role     `json:"role"`
	Instructions string          `json:"instructions,omitempty"`
	UserText     string          `json:"userText"`
	Context      json.RawMessage `json:"context,omitempty"`
}

// ReasoningClient is the external reasoning capability, specialized by role.
// Implementations must honor ctx cancellation and deadlines; a reply that is
// syntactically valid JSON may still be semantically empty, and callers must
// validate its shape before trusting it.
type ReasoningClient interface {
	// Invoke performs one reasoning call and returns the raw JSON reply.
	Invoke(ctx context.Context, req AgentRequest) (json.RawMessage, error)
}
