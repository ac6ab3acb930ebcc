package domain

// OrchestrationStep is one audit record of the orchestrator's reasoning
// loop. Steps are surfaced to the caller for debugging only; they must
// never feed back into control decisions.
type OrchestrationStep struct {
	Index       int    `json:"step"`
	Thought     string `json:"thought"`
	Action      string `json:"action"`
	Observation string `json:"observation"`
}

// Trace is an append-only sequence of orchestration steps for one turn.
type Trace []OrchestrationStep

// Add appends a step with the next index and returns its position so the
// observation can be filled in after the action completes.
func (t *Trace) Add(thought, action, observation string) int {
	*t = append(*t, OrchestrationStep{
		Index:       len(*t) + 1,
		Thought:     thought,
		Action:      action,
		Observation: observation,
	})
	return len(*t) - 1
}

// Observe overwrites the observation of the step at position i.
func (t Trace) Observe(i int, observation string) {
	if i >= 0 && i < len(t) {
		t[i].Observation = observation
	}
}
