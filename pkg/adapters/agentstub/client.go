// Package agentstub provides an in-process ReasoningClient with scripted
// replies. It backs tests and the offline demo mode of the chat command.
package agentstub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/ports"
)

// Responder produces a reply for a request when no scripted reply is queued.
type Responder func(req ports.AgentRequest) (json.RawMessage, error)

// Client is a scriptable ReasoningClient. Replies are queued per role and
// consumed in order; an optional Responder handles anything unscripted.
type Client struct {
	mu      sync.Mutex
	queues  map[domain.Role][]reply
	failing map[domain.Role]error
	calls   []ports.AgentRequest
	def     Responder
}

type reply struct {
	raw json.RawMessage
	err error
}

// New creates an empty scripted client. Unscripted calls fail unless a
// default Responder is set.
func New() *Client {
	return &Client{
		queues:  make(map[domain.Role][]reply),
		failing: make(map[domain.Role]error),
	}
}

// On queues a reply for the role. The value is marshaled to JSON; it panics
// on unmarshalable values because scripts are authored in tests.
func (c *Client) On(role domain.Role, v any) *Client {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("agentstub: cannot marshal scripted reply for %s: %v", role, err))
	}
	return c.OnRaw(role, raw)
}

// OnRaw queues a raw JSON reply for the role.
func (c *Client) OnRaw(role domain.Role, raw json.RawMessage) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queues[role] = append(c.queues[role], reply{raw: raw})
	return c
}

// OnError queues a single failing call for the role.
func (c *Client) OnError(role domain.Role, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queues[role] = append(c.queues[role], reply{err: err})
	return c
}

// Fail makes every call for the role fail until the client is rescripted.
// Queued replies still take precedence.
func (c *Client) Fail(role domain.Role, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing[role] = err
	return c
}

// WithDefault sets the fallback Responder for unscripted calls.
func (c *Client) WithDefault(def Responder) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.def = def
	return c
}

// Calls returns a copy of every request seen so far, in order.
func (c *Client) Calls() []ports.AgentRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ports.AgentRequest, len(c.calls))
	copy(out, c.calls)
	return out
}

// Roles returns the role of each call seen so far, in order.
func (c *Client) Roles() []domain.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Role, 0, len(c.calls))
	for _, call := range c.calls {
		out = append(out, call.Role)
	}
	return out
}

// Invoke implements ports.ReasoningClient.
func (c *Client) Invoke(ctx context.Context, req ports.AgentRequest) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)

	if queue := c.queues[req.Role]; len(queue) > 0 {
		next := queue[0]
		c.queues[req.Role] = queue[1:]
		return next.raw, next.err
	}
	if err, ok := c.failing[req.Role]; ok {
		return nil, err
	}
	if c.def != nil {
		return c.def(req)
	}
	return nil, fmt.Errorf("agentstub: no scripted reply for role %q", req.Role)
}
