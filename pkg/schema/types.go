package schema

// StepKind determines how a step's backing data is checked for completeness.
type StepKind string

const (
	// KindObject steps are backed by one map section with required scalar fields.
	KindObject StepKind = "object"
	// KindArray steps are backed by one slice section with a minimum length
	// and required sub-fields on every element.
	KindArray StepKind = "array"
	// KindMatrix steps are backed by square matrix sections whose side must
	// match the scenario's node count.
	KindMatrix StepKind = "matrix"
	// KindTerminal steps are always complete (summary / generation).
	KindTerminal StepKind = "terminal"
)

// FieldRule names one required field and its optional numeric range.
type FieldRule struct {
	Name string   `yaml:"name" validate:"required"`
	Min  *float64 `yaml:"min,omitempty"`
	Max  *float64 `yaml:"max,omitempty"`
}

// Step is the declarative definition of one wizard step.
type Step struct {
	Number  int      `yaml:"number" validate:"required,min=1"`
	Name    string   `yaml:"name" validate:"required"`
	Title   string   `yaml:"title,omitempty"`
	Kind    StepKind `yaml:"kind" validate:"required,oneof=object array matrix terminal"`
	Section string   `yaml:"section,omitempty"`

	// Fields are the required scalars (object kind) or required element
	// sub-fields (array kind).
	Fields []FieldRule `yaml:"fields,omitempty" validate:"dive"`

	// MinCountField names a scenario field whose value sets the minimum
	// element count for array kinds (e.g. numCEV). MinCount is the static
	// floor used when the field is absent or zero.
	MinCountField string `yaml:"minCountField,omitempty"`
	MinCount      int    `yaml:"minCount,omitempty"`

	// MatrixSections are the parameter-document sections holding the
	// matrices (matrix kind only).
	MatrixSections []string `yaml:"matrixSections,omitempty"`

	// Advance heuristics (tunable, see navigation engine):
	// MostlyCompleteFrac is the populated fraction at which the step is
	// considered "mostly complete" (0 disables, default 0.8);
	// AdvanceMin is how many fields/elements of this step, arriving while
	// the previous step is active, count as "substantial data".
	MostlyCompleteFrac float64 `yaml:"mostlyCompleteFrac,omitempty" validate:"gte=0,lte=1"`
	AdvanceMin         int     `yaml:"advanceMin,omitempty" validate:"gte=0"`
}

// Wizard is the ordered sequence of steps; step numbers are 1..len(Steps).
type Wizard struct {
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// StepCount returns the number of wizard steps (N).
func (w *Wizard) StepCount() int {
	return len(w.Steps)
}

// Step returns the definition for a 1-based step number.
func (w *Wizard) Step(number int) (Step, bool) {
	if number < 1 || number > len(w.Steps) {
		return Step{}, false
	}
	return w.Steps[number-1], true
}

// Clamp bounds a step number to [1, N].
func (w *Wizard) Clamp(number int) int {
	if number < 1 {
		return 1
	}
	if number > len(w.Steps) {
		return len(w.Steps)
	}
	return number
}

func fptr(v float64) *float64 { return &v }

// Default returns the built-in MCS-CEV wizard definition: eight steps from
// scenario sizing to the final summary.
func Default() *Wizard {
	return &Wizard{Steps: []Step{
		{
			Number: 1, Name: "scenario", Title: "Scenario Configuration",
			Kind: KindObject, Section: "scenario",
			Fields: []FieldRule{
				{Name: "scenarioName"},
				{Name: "numMCS", Min: fptr(1)},
				{Name: "numCEV", Min: fptr(1)},
				{Name: "numNodes", Min: fptr(2)},
			},
			MostlyCompleteFrac: 0.75,
		},
		{
			Number: 2, Name: "parameters", Title: "Model Parameters",
			Kind: KindObject, Section: "parameters",
			Fields: []FieldRule{
				{Name: "eta_ch_dch", Min: fptr(0), Max: fptr(1)},
				{Name: "MCS_max", Min: fptr(0)},
				{Name: "MCS_min", Min: fptr(0)},
				{Name: "MCS_ini", Min: fptr(0)},
				{Name: "CH_MCS", Min: fptr(0)},
				{Name: "DCH_MCS", Min: fptr(0)},
			},
			MostlyCompleteFrac: 0.8,
			AdvanceMin:         3,
		},
		{
			Number: 3, Name: "evData", Title: "Electric Vehicle Data",
			Kind: KindArray, Section: "evData",
			Fields: []FieldRule{
				{Name: "SOE_min", Min: fptr(0)},
				{Name: "SOE_max", Min: fptr(0)},
				{Name: "ch_rate", Min: fptr(0)},
			},
			MinCountField:      "numCEV",
			MinCount:           1,
			MostlyCompleteFrac: 0.8,
			AdvanceMin:         1,
		},
		{
			Number: 4, Name: "locations", Title: "Location Data",
			Kind: KindArray, Section: "locations",
			MinCountField:      "numNodes",
			MinCount:           1,
			MostlyCompleteFrac: 0.8,
			AdvanceMin:         1,
		},
		{
			Number: 5, Name: "timeData", Title: "Time Data",
			Kind: KindObject, Section: "timeData",
			Fields: []FieldRule{
				{Name: "priceRanges"},
			},
			AdvanceMin: 2,
		},
		{
			Number: 6, Name: "matrices", Title: "Distance and Travel Time Matrices",
			Kind:           KindMatrix,
			MatrixSections: []string{"distanceMatrix", "travelTimeMatrix"},
			AdvanceMin:     1,
		},
		{
			Number: 7, Name: "workSchedules", Title: "Work Schedules",
			Kind: KindArray, Section: "workSchedules",
			MinCount:   1,
			AdvanceMin: 1,
		},
		{
			Number: 8, Name: "summary", Title: "Summary and Generation",
			Kind: KindTerminal,
		},
	}}
}
