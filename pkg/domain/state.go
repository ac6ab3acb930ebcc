package domain

// MessageRole identifies the author of a conversation history entry.
type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleAgent MessageRole = "agent"
)

// DefaultHistoryLimit is the FIFO cap on conversation history entries.
const DefaultHistoryLimit = 20

// Message is a single conversation history entry.
type Message struct {
	Role MessageRole `json:"role"`
	Text string      `json:"text"`
}

// ConversationHistory is an insertion-ordered, bounded message log.
// When the limit is exceeded the oldest entries are evicted first.
type ConversationHistory struct {
	Messages []Message `json:"messages"`
	Limit    int       `json:"limit"`
}

// NewConversationHistory creates an empty history with the given cap.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewConversationHistory(limit int) *ConversationHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ConversationHistory{
		Messages: make([]Message, 0, limit),
		Limit:    limit,
	}
}

// Append adds an entry, evicting the oldest entries beyond the cap.
func (h *ConversationHistory) Append(role MessageRole, text string) {
	h.Messages = append(h.Messages, Message{Role: role, Text: text})
	if h.Limit > 0 && len(h.Messages) > h.Limit {
		h.Messages = h.Messages[len(h.Messages)-h.Limit:]
	}
}

// Window returns the last n entries, oldest first.
func (h *ConversationHistory) Window(n int) []Message {
	if n <= 0 || len(h.Messages) == 0 {
		return nil
	}
	if n > len(h.Messages) {
		n = len(h.Messages)
	}
	out := make([]Message, n)
	copy(out, h.Messages[len(h.Messages)-n:])
	return out
}

// Len returns the number of retained entries.
func (h *ConversationHistory) Len() int {
	return len(h.Messages)
}

// WorkflowState is the durable, mutable record for one session.
// It is mutated only by the orchestrator and the navigation engine,
// always under the session manager's per-key lock.
type WorkflowState struct {
	// CurrentStep is the active wizard step, clamped to [1, step count].
	CurrentStep int `json:"currentStep"`

	// ExtractedParameters is the partial configuration document,
	// keyed by section name (scenario, parameters, evData, ...).
	// Sections are replaced wholesale on merge; a failed extraction
	// never clears previously confirmed data.
	ExtractedParameters map[string]any `json:"extractedParameters"`

	// ValidationResults holds the last validation verdict, nil before the
	// first validation role runs.
	ValidationResults *ValidationResult `json:"validationResults,omitempty"`

	// Recommendations holds the last recommendation set.
	Recommendations *RecommendationResult `json:"recommendations,omitempty"`

	// Diagnostics of the most recent turn. Surfaced to callers for
	// observability; never consulted for control decisions.
	LastFlowType       FlowType            `json:"lastFlowType,omitempty"`
	ReactTrace         []OrchestrationStep `json:"reactTrace,omitempty"`
	OrchestrationTrace []OrchestrationStep `json:"orchestrationTrace,omitempty"`
}

// NewWorkflowState creates a fresh state positioned at the first step.
func NewWorkflowState() *WorkflowState {
	return &WorkflowState{
		CurrentStep:         1,
		ExtractedParameters: make(map[string]any),
	}
}

// HasParameters reports whether any section has been extracted so far.
func (w *WorkflowState) HasParameters() bool {
	return len(w.ExtractedParameters) > 0
}

// HasValidation reports whether a validation verdict has been recorded.
func (w *WorkflowState) HasValidation() bool {
	return w.ValidationResults != nil
}

// Session is the unit persisted per conversation: the workflow state plus
// the bounded history, keyed by an opaque identifier.
type Session struct {
	ID       string               `json:"id"`
	Workflow *WorkflowState       `json:"workflow"`
	History  *ConversationHistory `json:"history"`
}

// NewSession creates a clean session starting at step 1 with empty history.
func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Workflow: NewWorkflowState(),
		History:  NewConversationHistory(DefaultHistoryLimit),
	}
}

// deepCopyValue copies the JSON-shaped values a parameter section can
// hold, so clones never alias nested maps or slices.
func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e).(map[string]any)
		}
		return out
	default:
		return v
	}
}

// Clone returns a deep copy so stores can hand out isolated snapshots.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{ID: s.ID}
	if s.Workflow != nil {
		w := *s.Workflow
		w.ExtractedParameters = make(map[string]any, len(s.Workflow.ExtractedParameters))
		for k, v := range s.Workflow.ExtractedParameters {
			w.ExtractedParameters[k] = deepCopyValue(v)
		}
		if s.Workflow.ValidationResults != nil {
			vr := *s.Workflow.ValidationResults
			w.ValidationResults = &vr
		}
		if s.Workflow.Recommendations != nil {
			rr := *s.Workflow.Recommendations
			rr.Items = append([]Recommendation(nil), s.Workflow.Recommendations.Items...)
			w.Recommendations = &rr
		}
		w.ReactTrace = append([]OrchestrationStep(nil), s.Workflow.ReactTrace...)
		w.OrchestrationTrace = append([]OrchestrationStep(nil), s.Workflow.OrchestrationTrace...)
		out.Workflow = &w
	}
	if s.History != nil {
		h := &ConversationHistory{
			Messages: append([]Message(nil), s.History.Messages...),
			Limit:    s.History.Limit,
		}
		out.History = h
	}
	return out
}
