package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voltwiz/voltwiz/internal/navigation"
	"github.com/voltwiz/voltwiz/pkg/domain"
)

func scenarioDoc(extra map[string]any) map[string]any {
	doc := map[string]any{
		"scenario": map[string]any{
			"scenarioName": "depot-a",
			"numMCS":       2.0,
			"numCEV":       2.0,
			"numNodes":     3.0,
		},
	}
	for k, v := range extra {
		doc[k] = v
	}
	return doc
}

func TestNext_ExplicitAdvanceWins(t *testing.T) {
	e := navigation.New(nil)

	d := e.Next(navigation.Input{
		CurrentStep: 1,
		UserIntent:  domain.UserIntentAdvance,
		Validation:  &domain.ValidationResult{IsValid: false, Score: 0.1},
	})

	// Explicit intent outranks even a critical validation verdict.
	assert.Equal(t, 2, d.Step)
}

func TestNext_SubstantialNextStepData(t *testing.T) {
	e := navigation.New(nil)

	// On step 1, three of step 2's six parameters arrive in one message.
	d := e.Next(navigation.Input{
		CurrentStep: 1,
		Update: map[string]any{
			"parameters": map[string]any{"eta_ch_dch": 0.95, "MCS_max": 100.0, "MCS_min": 10.0},
		},
		Parameters: map[string]any{
			"parameters": map[string]any{"eta_ch_dch": 0.95, "MCS_max": 100.0, "MCS_min": 10.0},
		},
	})

	assert.Equal(t, 2, d.Step)
}

func TestNext_TwoNextStepFieldsAreNotSubstantial(t *testing.T) {
	e := navigation.New(nil)

	d := e.Next(navigation.Input{
		CurrentStep: 1,
		Update: map[string]any{
			"parameters": map[string]any{"eta_ch_dch": 0.95, "MCS_max": 100.0},
		},
		Parameters: map[string]any{
			"parameters": map[string]any{"eta_ch_dch": 0.95, "MCS_max": 100.0},
		},
	})

	assert.Equal(t, 1, d.Step)
}

func TestNext_MostlyCompleteAdvances(t *testing.T) {
	e := navigation.New(nil)

	// Three of four scenario fields (75%) meets step 1's threshold.
	doc := map[string]any{
		"scenario": map[string]any{"numMCS": 2.0, "numCEV": 4.0, "numNodes": 3.0},
	}
	d := e.Next(navigation.Input{
		CurrentStep: 1,
		Update:      doc,
		Parameters:  doc,
	})

	assert.Equal(t, 2, d.Step)
}

func TestNext_CriticalValidationHolds(t *testing.T) {
	e := navigation.New(nil)

	d := e.Next(navigation.Input{
		CurrentStep: 2,
		Update:      map[string]any{"parameters": map[string]any{"MCS_max": -5.0}},
		Parameters:  scenarioDoc(map[string]any{"parameters": map[string]any{"MCS_max": -5.0}}),
		Validation:  &domain.ValidationResult{IsValid: false, Score: 0.2},
	})

	assert.Equal(t, 2, d.Step)
	assert.Contains(t, d.Reason, "critical")
}

func TestNext_CriticalValidationHoldsEvenWhenComplete(t *testing.T) {
	e := navigation.New(nil)

	// A fully populated step still holds under a critical verdict.
	doc := scenarioDoc(nil)
	d := e.Next(navigation.Input{
		CurrentStep: 1,
		Update:      map[string]any{"scenario": doc["scenario"]},
		Parameters:  doc,
		Validation:  &domain.ValidationResult{IsValid: false, Score: 0.3},
	})

	assert.Equal(t, 1, d.Step)
	assert.Contains(t, d.Reason, "critical")
}

func TestNext_CompleteAndValidAdvances(t *testing.T) {
	e := navigation.New(nil)

	doc := scenarioDoc(nil)
	d := e.Next(navigation.Input{
		CurrentStep: 1,
		Update:      map[string]any{"scenario": doc["scenario"]},
		Parameters:  doc,
		Validation:  &domain.ValidationResult{IsValid: true, Score: 0.9},
	})

	assert.Equal(t, 2, d.Step)
}

func TestNext_CompleteWithAcceptableScoreAdvances(t *testing.T) {
	e := navigation.New(nil)

	doc := scenarioDoc(nil)
	d := e.Next(navigation.Input{
		CurrentStep: 1,
		Update:      map[string]any{"scenario": doc["scenario"]},
		Parameters:  doc,
		Validation:  &domain.ValidationResult{IsValid: false, Score: 0.75},
	})

	assert.Equal(t, 2, d.Step)
}

func TestNext_NoNewDataHolds(t *testing.T) {
	e := navigation.New(nil)

	d := e.Next(navigation.Input{
		CurrentStep: 3,
		Parameters:  scenarioDoc(nil),
	})

	assert.Equal(t, 3, d.Step)
	assert.Equal(t, "stay: no new data", d.Reason)
}

func TestNext_IncompleteStepHolds(t *testing.T) {
	e := navigation.New(nil)

	// One EV entry against numCEV=2 is neither complete nor substantial
	// for step 4.
	doc := scenarioDoc(map[string]any{
		"evData": []any{map[string]any{"SOE_min": 0.1, "SOE_max": 0.9, "ch_rate": 50.0}},
	})
	d := e.Next(navigation.Input{
		CurrentStep: 3,
		Update:      map[string]any{"evData": doc["evData"]},
		Parameters:  doc,
	})

	assert.Equal(t, 3, d.Step)
}

func TestNext_AdvancesByExactlyOne(t *testing.T) {
	e := navigation.New(nil)

	// A flood of data for several later steps still moves one step only.
	update := map[string]any{
		"parameters": map[string]any{
			"eta_ch_dch": 0.95, "MCS_max": 100.0, "MCS_min": 10.0,
			"MCS_ini": 50.0, "CH_MCS": 40.0, "DCH_MCS": 40.0,
		},
		"evData":    []any{map[string]any{}, map[string]any{}},
		"timeData":  map[string]any{"priceRanges": []any{1.0, 2.0}},
		"locations": []any{map[string]any{}, map[string]any{}, map[string]any{}},
	}
	d := e.Next(navigation.Input{
		CurrentStep: 1,
		Update:      update,
		Parameters:  scenarioDoc(update),
	})

	assert.Equal(t, 2, d.Step)
}

func TestNext_ClampsAtFinalStep(t *testing.T) {
	e := navigation.New(nil)

	d := e.Next(navigation.Input{
		CurrentStep: 8,
		UserIntent:  domain.UserIntentAdvance,
	})

	assert.Equal(t, 8, d.Step)
}

func TestNext_NeverRegresses(t *testing.T) {
	e := navigation.New(nil)

	// An empty document on a late step holds; it never walks back.
	d := e.Next(navigation.Input{
		CurrentStep: 6,
		Parameters:  map[string]any{},
	})

	assert.Equal(t, 6, d.Step)
}

func TestNext_OutOfRangeStepIsClamped(t *testing.T) {
	e := navigation.New(nil)

	d := e.Next(navigation.Input{CurrentStep: 0})
	assert.Equal(t, 1, d.Step)

	d = e.Next(navigation.Input{CurrentStep: 99})
	assert.Equal(t, 8, d.Step)
}
