package orchestrator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltwiz/voltwiz/internal/orchestrator"
	"github.com/voltwiz/voltwiz/pkg/adapters/agentstub"
	"github.com/voltwiz/voltwiz/pkg/domain"
)

func extractionReply(sections map[string]any) map[string]any {
	return map[string]any{
		"parameters": sections,
		"confidence": 0.9,
	}
}

func TestRun_RoleOrderIsFixed(t *testing.T) {
	stub := agentstub.New().
		On(domain.RoleUnderstanding, extractionReply(map[string]any{
			"scenario": map[string]any{"numMCS": 2},
		})).
		On(domain.RoleValidation, map[string]any{"isValid": true, "score": 0.9}).
		On(domain.RoleConversation, map[string]any{"message": "Got it."})

	session := domain.NewSession("s1")
	o := orchestrator.New(stub)
	result := o.Run(context.Background(), session, "numMCS is 2",
		domain.DecisionFor(domain.FlowParameterExtraction, 0.9, ""))

	assert.Equal(t, []domain.Role{
		domain.RoleUnderstanding,
		domain.RoleValidation,
		domain.RoleConversation,
	}, stub.Roles())
	assert.Equal(t, "Got it.", result.Conversation.Message)
	assert.False(t, result.Fallback)
}

func TestRun_MergesExtractionImmediately(t *testing.T) {
	session := domain.NewSession("s1")
	session.Workflow.ExtractedParameters["scenario"] = map[string]any{"numMCS": 1.0, "numCEV": 4.0}
	session.Workflow.ExtractedParameters["parameters"] = map[string]any{"MCS_max": 100.0}

	stub := agentstub.New().
		On(domain.RoleUnderstanding, extractionReply(map[string]any{
			"scenario": map[string]any{"numMCS": 3.0},
			"evData":   []any{},
		})).
		On(domain.RoleValidation, map[string]any{"isValid": true, "score": 0.8}).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	o := orchestrator.New(stub)
	o.Run(context.Background(), session, "make it 3 MCS",
		domain.DecisionFor(domain.FlowParameterExtraction, 0.9, ""))

	w := session.Workflow
	// Non-empty sections replace wholesale, empty ones are skipped,
	// untouched sections survive.
	assert.Equal(t, map[string]any{"numMCS": 3.0}, w.ExtractedParameters["scenario"])
	assert.Equal(t, map[string]any{"MCS_max": 100.0}, w.ExtractedParameters["parameters"])
	assert.NotContains(t, w.ExtractedParameters, "evData")
}

func TestRun_FailedExtractionKeepsPriorData(t *testing.T) {
	session := domain.NewSession("s1")
	session.Workflow.ExtractedParameters["scenario"] = map[string]any{"numMCS": 2.0}

	stub := agentstub.New().
		OnError(domain.RoleUnderstanding, errors.New("boom")).
		On(domain.RoleValidation, map[string]any{"isValid": true, "score": 0.9}).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	o := orchestrator.New(stub)
	result := o.Run(context.Background(), session, "hello",
		domain.DecisionFor(domain.FlowParameterExtraction, 0.9, ""))

	assert.Equal(t, map[string]any{"numMCS": 2.0}, session.Workflow.ExtractedParameters["scenario"])
	assert.Equal(t, 0.0, result.Understanding.Confidence)
	assert.False(t, result.Understanding.HasData())
	// Later roles still ran.
	require.NotNil(t, result.Validation)
	assert.Equal(t, "ok", result.Conversation.Message)
}

func TestRun_FailedValidationYieldsNeutralInvalid(t *testing.T) {
	stub := agentstub.New().
		OnError(domain.RoleValidation, errors.New("timeout-ish")).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	session := domain.NewSession("s1")
	o := orchestrator.New(stub)
	result := o.Run(context.Background(), session, "validate this",
		domain.DecisionFor(domain.FlowValidationRequest, 0.9, ""))

	require.NotNil(t, result.Validation)
	assert.False(t, result.Validation.IsValid)
	assert.Equal(t, 0.0, result.Validation.Score)
	assert.Same(t, result.Validation, session.Workflow.ValidationResults)
}

func TestRun_MalformedReplyIsAFailure(t *testing.T) {
	stub := agentstub.New().
		OnRaw(domain.RoleValidation, []byte(`<<not json>>`)).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	session := domain.NewSession("s1")
	result := orchestrator.New(stub).Run(context.Background(), session, "check",
		domain.DecisionFor(domain.FlowValidationRequest, 0.9, ""))

	assert.False(t, result.Validation.IsValid)
	assert.Contains(t, result.Validation.Issues, "validation unavailable")
}

func TestRun_ConditionalRecommendationSkipped(t *testing.T) {
	stub := agentstub.New().
		On(domain.RoleValidation, map[string]any{"isValid": true, "score": 0.9}).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	session := domain.NewSession("s1")
	result := orchestrator.New(stub).Run(context.Background(), session, "change MCS_max to 90",
		domain.DecisionFor(domain.FlowParameterModification, 0.9, ""))

	// No intent keyword and validation passed: the role is skipped, not run.
	require.NotNil(t, result.Recommendation)
	assert.Empty(t, result.Recommendation.Items)
	assert.Equal(t, 1.0, result.Recommendation.Confidence)
	assert.NotContains(t, stub.Roles(), domain.RoleRecommendation)
}

func TestRun_ConditionalRecommendationOnIntent(t *testing.T) {
	stub := agentstub.New().
		On(domain.RoleValidation, map[string]any{"isValid": true, "score": 0.9}).
		On(domain.RoleRecommendation, map[string]any{
			"items":      []map[string]any{{"field": "MCS_max", "value": 95}},
			"confidence": 0.8,
		}).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	session := domain.NewSession("s1")
	result := orchestrator.New(stub).Run(context.Background(), session,
		"change MCS_max, what would you recommend?",
		domain.DecisionFor(domain.FlowParameterModification, 0.9, ""))

	require.Len(t, result.Recommendation.Items, 1)
	assert.Equal(t, "MCS_max", result.Recommendation.Items[0].Field)
}

func TestRun_ConditionalRecommendationOnFailedValidation(t *testing.T) {
	stub := agentstub.New().
		On(domain.RoleValidation, map[string]any{"isValid": false, "score": 0.3}).
		On(domain.RoleRecommendation, map[string]any{
			"items":      []map[string]any{{"field": "SOE_min", "value": 0.2}},
			"confidence": 0.7,
		}).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	session := domain.NewSession("s1")
	result := orchestrator.New(stub).Run(context.Background(), session, "change SOE_min to -1",
		domain.DecisionFor(domain.FlowParameterModification, 0.9, ""))

	assert.Contains(t, stub.Roles(), domain.RoleRecommendation)
	require.Len(t, result.Recommendation.Items, 1)
}

func TestRun_ConversationAlwaysRunsAndNeverFailsTheTurn(t *testing.T) {
	stub := agentstub.New().Fail(domain.RoleConversation, errors.New("down"))

	session := domain.NewSession("s1")
	result := orchestrator.New(stub).Run(context.Background(), session, "hi",
		domain.DecisionFor(domain.FlowSimpleQuestion, 0.9, ""))

	require.NotNil(t, result.Conversation)
	assert.NotEmpty(t, result.Conversation.Message)
}

func TestRun_AllRolesDownStillProducesReply(t *testing.T) {
	down := errors.New("service unavailable")
	stub := agentstub.New().
		Fail(domain.RoleUnderstanding, down).
		Fail(domain.RoleValidation, down).
		Fail(domain.RoleRecommendation, down).
		Fail(domain.RoleConversation, down)

	session := domain.NewSession("s1")
	session.Workflow.ExtractedParameters["scenario"] = map[string]any{"numMCS": 2.0}
	result := orchestrator.New(stub).Run(context.Background(), session, "recommend something",
		domain.FallbackDecision())

	require.NotNil(t, result.Conversation)
	assert.NotEmpty(t, result.Conversation.Message)
	// Confirmed data survives a fully degraded turn.
	assert.Equal(t, map[string]any{"numMCS": 2.0}, session.Workflow.ExtractedParameters["scenario"])
}

func TestRun_TraceRecordsEveryRole(t *testing.T) {
	stub := agentstub.New().
		On(domain.RoleUnderstanding, extractionReply(map[string]any{
			"scenario": map[string]any{"numMCS": 2.0},
		})).
		On(domain.RoleValidation, map[string]any{"isValid": true, "score": 0.9}).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	session := domain.NewSession("s1")
	result := orchestrator.New(stub).Run(context.Background(), session, "numMCS=2",
		domain.DecisionFor(domain.FlowParameterExtraction, 0.9, ""))

	require.Len(t, result.Trace, 3)
	for i, step := range result.Trace {
		assert.Equal(t, i+1, step.Index)
		assert.NotEmpty(t, step.Action)
		assert.NotEmpty(t, step.Observation)
	}
}

func TestRun_HooksSeeFailures(t *testing.T) {
	var calls, returns, failures int
	hooks := &domain.LifecycleHooks{
		OnRoleCall: func(_ context.Context, e *domain.RoleEvent) { calls++ },
		OnRoleReturn: func(_ context.Context, e *domain.RoleEvent) {
			returns++
			if e.Failed {
				failures++
			}
		},
	}

	stub := agentstub.New().
		OnError(domain.RoleValidation, errors.New("boom")).
		On(domain.RoleConversation, map[string]any{"message": "ok"})

	session := domain.NewSession("s1")
	orchestrator.New(stub, orchestrator.WithHooks(hooks)).Run(context.Background(), session,
		"validate", domain.DecisionFor(domain.FlowValidationRequest, 0.9, ""))

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, returns)
	assert.Equal(t, 1, failures)
}
