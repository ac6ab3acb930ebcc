package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Section names of the parameter document. The wire format stays a nested
// map; these constants and the typed structs below give the core typed
// access to the sections it reasons about.
const (
	SectionScenario         = "scenario"
	SectionParameters       = "parameters"
	SectionEVData           = "evData"
	SectionLocations        = "locations"
	SectionTimeData         = "timeData"
	SectionDistanceMatrix   = "distanceMatrix"
	SectionTravelTimeMatrix = "travelTimeMatrix"
	SectionWorkSchedules    = "workSchedules"
)

// Scenario is the step-1 configuration: fleet and network sizing.
type Scenario struct {
	ScenarioName string `json:"scenarioName" mapstructure:"scenarioName"`
	NumMCS       int    `json:"numMCS" mapstructure:"numMCS"`
	NumCEV       int    `json:"numCEV" mapstructure:"numCEV"`
	NumNodes     int    `json:"numNodes" mapstructure:"numNodes"`
}

// ModelParameters is the step-2 configuration: charger model scalars.
type ModelParameters struct {
	EtaChDch   float64 `json:"eta_ch_dch" mapstructure:"eta_ch_dch"`
	MCSMax     float64 `json:"MCS_max" mapstructure:"MCS_max"`
	MCSMin     float64 `json:"MCS_min" mapstructure:"MCS_min"`
	MCSIni     float64 `json:"MCS_ini" mapstructure:"MCS_ini"`
	ChMCS      float64 `json:"CH_MCS" mapstructure:"CH_MCS"`
	DchMCS     float64 `json:"DCH_MCS" mapstructure:"DCH_MCS"`
	DchMCSPlug float64 `json:"DCH_MCS_plug,omitempty" mapstructure:"DCH_MCS_plug"`
	CMCSPlug   float64 `json:"C_MCS_plug,omitempty" mapstructure:"C_MCS_plug"`
	KTrv       float64 `json:"k_trv,omitempty" mapstructure:"k_trv"`
	DeltaT     float64 `json:"delta_T,omitempty" mapstructure:"delta_T"`
	RhoMiss    float64 `json:"rho_miss,omitempty" mapstructure:"rho_miss"`
}

// EVUnit is one vehicle's battery envelope in the step-3 array.
type EVUnit struct {
	SOEMin float64 `json:"SOE_min" mapstructure:"SOE_min"`
	SOEMax float64 `json:"SOE_max" mapstructure:"SOE_max"`
	SOEIni float64 `json:"SOE_ini,omitempty" mapstructure:"SOE_ini"`
	ChRate float64 `json:"ch_rate" mapstructure:"ch_rate"`
}

// DecodeSection decodes an untyped section value into a typed struct using
// loose conversions (JSON numbers arrive as float64, YAML as int).
func DecodeSection[T any](value any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return out, fmt.Errorf("failed to build section decoder: %w", err)
	}
	if err := dec.Decode(value); err != nil {
		return out, fmt.Errorf("failed to decode section: %w", err)
	}
	return out, nil
}
