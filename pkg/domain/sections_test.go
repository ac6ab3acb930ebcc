package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSection_Scenario(t *testing.T) {
	// JSON round trips deliver numbers as float64; weak typing converts.
	raw := map[string]any{
		"scenarioName": "depot-a",
		"numMCS":       2.0,
		"numCEV":       8.0,
		"numNodes":     5.0,
	}

	scenario, err := DecodeSection[Scenario](raw)
	require.NoError(t, err)
	assert.Equal(t, "depot-a", scenario.ScenarioName)
	assert.Equal(t, 2, scenario.NumMCS)
	assert.Equal(t, 8, scenario.NumCEV)
	assert.Equal(t, 5, scenario.NumNodes)
}

func TestDecodeSection_ModelParameters(t *testing.T) {
	raw := map[string]any{
		"eta_ch_dch": 0.95,
		"MCS_max":    1000,
		"MCS_min":    "100",
	}

	params, err := DecodeSection[ModelParameters](raw)
	require.NoError(t, err)
	assert.Equal(t, 0.95, params.EtaChDch)
	assert.Equal(t, 1000.0, params.MCSMax)
	assert.Equal(t, 100.0, params.MCSMin)
}

func TestDecodeSection_EVUnits(t *testing.T) {
	raw := []any{
		map[string]any{"SOE_min": 10.0, "SOE_max": 80.0, "ch_rate": 50.0},
		map[string]any{"SOE_min": 15.0, "SOE_max": 85.0, "ch_rate": 50.0},
	}

	units, err := DecodeSection[[]EVUnit](raw)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, 10.0, units[0].SOEMin)
	assert.Equal(t, 85.0, units[1].SOEMax)
}

func TestDecodeSection_RejectsWrongShape(t *testing.T) {
	_, err := DecodeSection[Scenario]([]any{"not", "a", "map"})
	assert.Error(t, err)
}
