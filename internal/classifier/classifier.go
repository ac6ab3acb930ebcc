// Package classifier decides, per user message, which reasoning roles the
// turn needs. The agent only names a flow type; the role set always comes
// from the fixed flow table, so the same flow type yields the same roles.
package classifier

import (
	"context"
	"encoding/json"

	"log/slog"

	"github.com/voltwiz/voltwiz/internal/logging"
	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/ports"
)

// Classifier turns a user message into a FlowDecision.
type Classifier struct {
	client ports.ReasoningClient
	logger *slog.Logger
}

// Option configures the Classifier.
type Option func(*Classifier)

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

// New creates a Classifier backed by the given reasoning client.
func New(client ports.ReasoningClient, opts ...Option) *Classifier {
	c := &Classifier{client: client, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// analysisContext is the session snapshot the analysis role sees.
type analysisContext struct {
	CurrentStep   int    `json:"currentStep"`
	HasParameters bool   `json:"hasParameters"`
	HasValidation bool   `json:"hasValidation"`
	HistoryLength int    `json:"historyLength"`
	LastFlowType  string `json:"lastFlowType,omitempty"`
}

// analysisReply is the expected wire shape of the analysis role's answer.
type analysisReply struct {
	FlowType   domain.FlowType `json:"flowType"`
	Confidence float64         `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

// Classify asks the analysis role for a flow type and maps it through the
// fixed role table. It never fails: any transport, timeout, or decode
// problem yields the full-analysis fallback decision instead.
func (c *Classifier) Classify(ctx context.Context, message string, workflow *domain.WorkflowState, history *domain.ConversationHistory) domain.FlowDecision {
	var historyLen int
	if history != nil {
		historyLen = history.Len()
	}
	snapshot, err := json.Marshal(analysisContext{
		CurrentStep:   workflow.CurrentStep,
		HasParameters: workflow.HasParameters(),
		HasValidation: workflow.HasValidation(),
		HistoryLength: historyLen,
		LastFlowType:  string(workflow.LastFlowType),
	})
	if err != nil {
		// Snapshot is plain scalars; this cannot realistically happen.
		snapshot = nil
	}

	raw, err := c.client.Invoke(ctx, ports.AgentRequest{
		Role:     domain.RoleAnalysis,
		UserText: message,
		Context:  snapshot,
	})
	if err != nil {
		c.logger.Warn("Message classification failed, using fallback flow", "err", err)
		return domain.FallbackDecision()
	}

	var reply analysisReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		c.logger.Warn("Unparseable classification reply, using fallback flow", "err", err)
		return domain.FallbackDecision()
	}
	if !reply.FlowType.Known() {
		c.logger.Warn("Unknown flow type from analysis role, using fallback flow",
			"flow_type", string(reply.FlowType))
		return domain.FallbackDecision()
	}

	confidence := reply.Confidence
	if confidence < 0 || confidence > 1 {
		confidence = 0.5
	}
	return domain.DecisionFor(reply.FlowType, confidence, reply.Reasoning)
}
