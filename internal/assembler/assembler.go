// Package assembler folds one turn's role results into the outward-facing
// response payload. It is pure: no I/O, no session mutation.
package assembler

import (
	"fmt"
	"sort"

	"github.com/voltwiz/voltwiz/internal/navigation"
	"github.com/voltwiz/voltwiz/internal/orchestrator"
	"github.com/voltwiz/voltwiz/pkg/domain"
)

// formSections are the sections mirrored to the UI form when validation
// passes. Array and matrix sections render through their own step views.
var formSections = []string{domain.SectionScenario, domain.SectionParameters}

// Assemble builds the TurnResponse for one processed message.
func Assemble(sessionID string, decision domain.FlowDecision, result *orchestrator.Result, nav navigation.Decision, session *domain.Session) *domain.TurnResponse {
	resp := &domain.TurnResponse{
		SessionID:           sessionID,
		Message:             result.Conversation.Message,
		Actions:             buildActions(result),
		FormUpdates:         buildFormUpdates(result, session),
		NavigateToStep:      nav.Step,
		ExtractedParameters: session.Workflow.ExtractedParameters,
		ValidationResult:    result.Validation,
		Recommendations:     result.Recommendation,
		FlowDecision:        &decision,
		Trace:               result.Trace,
	}
	return resp
}

func buildActions(result *orchestrator.Result) []domain.Action {
	actions := []domain.Action{}

	if result.Understanding != nil && result.Understanding.HasData() {
		sections := make([]string, 0, len(result.Understanding.Parameters))
		for name := range result.Understanding.Parameters {
			sections = append(sections, name)
		}
		sort.Strings(sections)
		actions = append(actions, domain.Action{
			Description: fmt.Sprintf("Extracted data for %d section(s)", len(sections)),
			Status:      domain.ActionCompleted,
			Details:     sections,
		})
	}

	if result.Validation != nil {
		if result.Validation.IsValid {
			actions = append(actions, domain.Action{
				Description: "Validated configuration",
				Status:      domain.ActionCompleted,
			})
		} else {
			actions = append(actions, domain.Action{
				Description: "Validation found issues",
				Status:      domain.ActionWarning,
				Details:     result.Validation.Suggestions,
			})
		}
	}

	if result.Recommendation != nil && len(result.Recommendation.Items) > 0 {
		actions = append(actions, domain.Action{
			Description: fmt.Sprintf("Generated %d recommendation(s)", len(result.Recommendation.Items)),
			Status:      domain.ActionCompleted,
			Details:     result.Recommendation.Items,
		})
	}

	return actions
}

// buildFormUpdates mirrors scalar sections to the caller's form, but only
// behind a passing validation verdict so a bad extraction never lands in
// the UI.
func buildFormUpdates(result *orchestrator.Result, session *domain.Session) []domain.FormUpdate {
	updates := []domain.FormUpdate{}
	if result.Validation == nil || !result.Validation.IsValid {
		return updates
	}
	for _, section := range formSections {
		if data, ok := session.Workflow.ExtractedParameters[section]; ok {
			updates = append(updates, domain.FormUpdate{Section: section, Data: data})
		}
	}
	return updates
}
