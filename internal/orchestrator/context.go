package orchestrator

import (
	"github.com/voltwiz/voltwiz/pkg/domain"
)

// Role context payloads. Each role sees only what it needs; the conversation
// role additionally gets a bounded window of recent history.

type understandingPayload struct {
	CurrentStep int              `json:"currentStep"`
	Parameters  map[string]any   `json:"parameters"`
	History     []domain.Message `json:"history,omitempty"`
}

func understandingContext(session *domain.Session) understandingPayload {
	return understandingPayload{
		CurrentStep: session.Workflow.CurrentStep,
		Parameters:  session.Workflow.ExtractedParameters,
		History:     session.History.Window(historyWindow),
	}
}

type validationPayload struct {
	CurrentStep int            `json:"currentStep"`
	Parameters  map[string]any `json:"parameters"`
}

func validationContext(session *domain.Session) validationPayload {
	return validationPayload{
		CurrentStep: session.Workflow.CurrentStep,
		Parameters:  session.Workflow.ExtractedParameters,
	}
}

type recommendationPayload struct {
	CurrentStep int                      `json:"currentStep"`
	Parameters  map[string]any           `json:"parameters"`
	Validation  *domain.ValidationResult `json:"validation,omitempty"`
}

func recommendationContext(session *domain.Session) recommendationPayload {
	return recommendationPayload{
		CurrentStep: session.Workflow.CurrentStep,
		Parameters:  session.Workflow.ExtractedParameters,
		Validation:  session.Workflow.ValidationResults,
	}
}

type conversationPayload struct {
	CurrentStep     int                          `json:"currentStep"`
	Parameters      map[string]any               `json:"parameters"`
	MissingInfo     []string                     `json:"missingInfo,omitempty"`
	Validation      *domain.ValidationResult     `json:"validation,omitempty"`
	Recommendations *domain.RecommendationResult `json:"recommendations,omitempty"`
	History         []domain.Message             `json:"history,omitempty"`
}

func conversationContext(session *domain.Session, result *Result) conversationPayload {
	p := conversationPayload{
		CurrentStep:     session.Workflow.CurrentStep,
		Parameters:      session.Workflow.ExtractedParameters,
		Validation:      result.Validation,
		Recommendations: result.Recommendation,
		History:         session.History.Window(historyWindow),
	}
	if result.Understanding != nil {
		p.MissingInfo = result.Understanding.MissingInfo
	}
	return p
}
