package domain

// ActionStatus marks how a surfaced side-effect concluded.
type ActionStatus string

const (
	ActionCompleted ActionStatus = "completed"
	ActionWarning   ActionStatus = "warning"
)

// Action describes one piece of work a turn performed, for display.
type Action struct {
	Description string       `json:"description"`
	Status      ActionStatus `json:"status"`
	Details     any          `json:"details,omitempty"`
}

// FormUpdate is a partial form write for the UI: one section's data.
// Updates are only emitted when validation passed.
type FormUpdate struct {
	Section string `json:"section"`
	Data    any    `json:"data"`
}

// TurnResponse is the outward-facing payload for one processed message.
type TurnResponse struct {
	SessionID           string                `json:"sessionId"`
	Message             string                `json:"message"`
	Actions             []Action              `json:"actions"`
	FormUpdates         []FormUpdate          `json:"formUpdates"`
	NavigateToStep      int                   `json:"navigateToStep"`
	ExtractedParameters map[string]any        `json:"extractedParameters,omitempty"`
	ValidationResult    *ValidationResult     `json:"validationResult,omitempty"`
	Recommendations     *RecommendationResult `json:"recommendations,omitempty"`
	FlowDecision        *FlowDecision         `json:"flowDecision,omitempty"`
	Trace               []OrchestrationStep   `json:"trace,omitempty"`
}

// StepChange is the event broadcast to transport subscribers when a turn
// moves a session to a different wizard step.
type StepChange struct {
	SessionID string `json:"sessionId"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}
