package domain

// Role identifies a parameterization of the reasoning capability.
type Role string

const (
	RoleAnalysis       Role = "analysis" // message classification (conversation-analysis)
	RoleUnderstanding  Role = "understanding"
	RoleValidation     Role = "validation"
	RoleRecommendation Role = "recommendation"
	RoleConversation   Role = "conversation"
)

// FlowType labels the kind of processing a message needs.
type FlowType string

const (
	FlowSimpleQuestion        FlowType = "simple_question"
	FlowParameterExtraction   FlowType = "parameter_extraction"
	FlowParameterModification FlowType = "parameter_modification"
	FlowRecommendationRequest FlowType = "recommendation_request"
	FlowValidationRequest     FlowType = "validation_request"
	FlowFullAnalysis          FlowType = "full_analysis"
)

// RecommendationMode says whether a flow runs the recommendation role.
type RecommendationMode int

const (
	RecommendNever RecommendationMode = iota
	RecommendAlways
	// RecommendConditional runs the role only when the message carries
	// recommendation intent or the prior validation failed.
	RecommendConditional
)

// RolePlan is the fixed set of roles a flow type requires. The conversation
// role is implicit: it always runs last, for every flow.
type RolePlan struct {
	Understanding  bool
	Validation     bool
	Recommendation RecommendationMode
}

// flowPlans is the documented flowType -> roles mapping. It is a lookup
// table, never re-derived at runtime from agent output.
var flowPlans = map[FlowType]RolePlan{
	FlowSimpleQuestion:        {},
	FlowParameterExtraction:   {Understanding: true, Validation: true},
	FlowParameterModification: {Validation: true, Recommendation: RecommendConditional},
	FlowRecommendationRequest: {Recommendation: RecommendAlways},
	FlowValidationRequest:     {Validation: true},
	FlowFullAnalysis:          {Understanding: true, Validation: true, Recommendation: RecommendConditional},
}

// Plan returns the role plan for the flow type. Unrecognized values get the
// full-analysis plan so an odd classifier answer still makes progress.
func (f FlowType) Plan() RolePlan {
	if plan, ok := flowPlans[f]; ok {
		return plan
	}
	return flowPlans[FlowFullAnalysis]
}

// Known reports whether the value is one of the six recognized flow types.
func (f FlowType) Known() bool {
	_, ok := flowPlans[f]
	return ok
}

// FlowDecision is the classifier's verdict for one message.
type FlowDecision struct {
	FlowType               FlowType `json:"flowType"`
	RequiresUnderstanding  bool     `json:"requiresUnderstanding"`
	RequiresValidation     bool     `json:"requiresValidation"`
	RequiresRecommendation bool     `json:"requiresRecommendation"`
	Confidence             float64  `json:"confidence"`
	Rationale              string   `json:"rationale"`
}

// DecisionFor builds a decision from the fixed plan of a flow type.
// Conditional recommendation is requested here and resolved by the
// orchestrator against the message text and prior validation.
func DecisionFor(ft FlowType, confidence float64, rationale string) FlowDecision {
	plan := ft.Plan()
	return FlowDecision{
		FlowType:               ft,
		RequiresUnderstanding:  plan.Understanding,
		RequiresValidation:     plan.Validation,
		RequiresRecommendation: plan.Recommendation != RecommendNever,
		Confidence:             confidence,
		Rationale:              rationale,
	}
}

// FallbackDecision is the safe default used when classification fails:
// run everything, at middling confidence.
func FallbackDecision() FlowDecision {
	return FlowDecision{
		FlowType:               FlowFullAnalysis,
		RequiresUnderstanding:  true,
		RequiresValidation:     true,
		RequiresRecommendation: true,
		Confidence:             0.5,
		Rationale:              "fallback",
	}
}
