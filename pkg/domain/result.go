package domain

// UserIntentAdvance is the extraction marker for an explicit request to
// move to the next wizard step ("looks good, continue").
const UserIntentAdvance = "advance"

// UnderstandingResult is the structured output of the understanding role:
// parameter sections extracted from free text.
type UnderstandingResult struct {
	// Parameters maps section names to extracted section data
	// (maps for scalar sections, slices for per-entity sections).
	Parameters map[string]any `json:"parameters"`

	Confidence  float64  `json:"confidence"`
	MissingInfo []string `json:"missingInfo,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`

	// UserIntent is UserIntentAdvance when the message explicitly asked to
	// move on, empty otherwise.
	UserIntent string `json:"userIntent,omitempty"`
}

// HasData reports whether any section was extracted.
func (u *UnderstandingResult) HasData() bool {
	return u != nil && len(u.Parameters) > 0
}

// NeutralUnderstanding is the substitute for a failed extraction: no
// sections, zero confidence. Merging it is a no-op, so prior state survives.
func NeutralUnderstanding() *UnderstandingResult {
	return &UnderstandingResult{
		Parameters:  map[string]any{},
		Confidence:  0,
		MissingInfo: []string{"extraction unavailable"},
	}
}

// ValidationResult is the last validation verdict for a parameter set.
type ValidationResult struct {
	IsValid      bool               `json:"isValid"`
	Score        float64            `json:"score"`
	Completeness map[string]float64 `json:"completeness,omitempty"`
	Issues       []string           `json:"issues,omitempty"`
	Suggestions  []string           `json:"suggestions,omitempty"`
}

// NeutralValidation is the substitute for a failed validation call:
// invalid by default, zero score.
func NeutralValidation() *ValidationResult {
	return &ValidationResult{
		IsValid: false,
		Score:   0,
		Issues:  []string{"validation unavailable"},
	}
}

// Recommendation is a single suggested value.
type Recommendation struct {
	Field  string `json:"field,omitempty"`
	Value  any    `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// RecommendationResult is the last recommendation set.
type RecommendationResult struct {
	Items      []Recommendation `json:"items"`
	Confidence float64          `json:"confidence"`
}

// NeutralRecommendation is the substitute for a failed recommendation call.
func NeutralRecommendation() *RecommendationResult {
	return &RecommendationResult{Items: []Recommendation{}, Confidence: 0}
}

// SkippedRecommendation is returned when the conditional recommendation
// heuristic decides the role is not needed this turn.
func SkippedRecommendation() *RecommendationResult {
	return &RecommendationResult{Items: []Recommendation{}, Confidence: 1}
}

// ConversationResult is the natural-language reply of the conversation role.
type ConversationResult struct {
	Message string `json:"message"`
}

// NeutralConversation is the best-effort reply when the conversation role
// itself fails; the turn still completes.
func NeutralConversation() *ConversationResult {
	return &ConversationResult{
		Message: "I apologize, but I ran into a problem processing that. Please try again.",
	}
}
