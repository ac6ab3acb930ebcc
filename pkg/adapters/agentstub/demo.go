package agentstub

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/ports"
)

var assignmentRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*[=:]\s*(-?\d+(?:\.\d+)?)`)

// scenario-level fields; everything else extracted lands in parameters.
var scenarioFields = map[string]bool{
	"numMCS": true, "numCEV": true, "numNodes": true,
}

// NewDemo returns a client that answers every role with deterministic
// heuristics, so the chat UI is usable without a reasoning service.
func NewDemo() *Client {
	return New().WithDefault(demoRespond)
}

func demoRespond(req ports.AgentRequest) (json.RawMessage, error) {
	switch req.Role {
	case domain.RoleAnalysis:
		return json.Marshal(map[string]any{
			"flowType":   demoFlowType(req.UserText),
			"confidence": 0.9,
			"reasoning":  "demo heuristic",
		})
	case domain.RoleUnderstanding:
		return json.Marshal(demoExtract(req.UserText))
	case domain.RoleValidation:
		return json.Marshal(map[string]any{
			"isValid": true,
			"score":   0.8,
		})
	case domain.RoleRecommendation:
		return json.Marshal(map[string]any{
			"items": []map[string]any{
				{"field": "eta_ch_dch", "value": 0.95, "reason": "typical charger efficiency"},
			},
			"confidence": 0.7,
		})
	case domain.RoleConversation:
		return json.Marshal(map[string]any{
			"message": demoReply(req.UserText),
		})
	default:
		return nil, fmt.Errorf("agentstub: unsupported demo role %q", req.Role)
	}
}

func demoFlowType(text string) domain.FlowType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "recommend") || strings.Contains(lower, "suggest"):
		return domain.FlowRecommendationRequest
	case assignmentRe.MatchString(text):
		return domain.FlowParameterExtraction
	case strings.Contains(lower, "valid"):
		return domain.FlowValidationRequest
	default:
		return domain.FlowSimpleQuestion
	}
}

func demoExtract(text string) map[string]any {
	scenario := map[string]any{}
	params := map[string]any{}
	for _, m := range assignmentRe.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if scenarioFields[m[1]] {
			scenario[m[1]] = value
		} else {
			params[m[1]] = value
		}
	}

	sections := map[string]any{}
	if len(scenario) > 0 {
		sections[domain.SectionScenario] = scenario
	}
	if len(params) > 0 {
		sections[domain.SectionParameters] = params
	}
	result := map[string]any{
		"parameters": sections,
		"confidence": 0.9,
	}
	if strings.Contains(strings.ToLower(text), "next step") ||
		strings.Contains(strings.ToLower(text), "continue") {
		result["userIntent"] = domain.UserIntentAdvance
	}
	return result
}

func demoReply(text string) string {
	if assignmentRe.MatchString(text) {
		return "Captured those values. Tell me more, or say \"continue\" to move on."
	}
	return "I can help you configure the scenario. Try giving me values like numMCS=2, numCEV=4."
}
