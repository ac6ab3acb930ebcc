package schema

import (
	"fmt"
)

// Report is the completeness verdict for one step against the current
// parameter document. The same report feeds the navigation engine's
// predicates and the diagnostics surfaced to the caller.
type Report struct {
	Step     int      `json:"step"`
	Name     string   `json:"name"`
	Complete bool     `json:"complete"`
	Fraction float64  `json:"fraction"`
	Missing  []string `json:"missing,omitempty"`
}

// Evaluate computes the completeness report for a 1-based step number.
// Unknown step numbers yield an empty, incomplete report.
func (w *Wizard) Evaluate(number int, params map[string]any) Report {
	step, ok := w.Step(number)
	if !ok {
		return Report{Step: number, Missing: []string{"unknown step"}}
	}

	rep := Report{Step: step.Number, Name: step.Name}
	switch step.Kind {
	case KindTerminal:
		rep.Complete = true
		rep.Fraction = 1
	case KindObject:
		w.evaluateObject(step, params, &rep)
	case KindArray:
		w.evaluateArray(step, params, &rep)
	case KindMatrix:
		w.evaluateMatrix(step, params, &rep)
	}
	return rep
}

// EvaluateAll reports every step in order.
func (w *Wizard) EvaluateAll(params map[string]any) []Report {
	out := make([]Report, 0, len(w.Steps))
	for _, s := range w.Steps {
		out = append(out, w.Evaluate(s.Number, params))
	}
	return out
}

// SubstantialData reports whether the update (the sections extracted this
// turn) already carries enough data for the given step to justify jumping
// ahead to it. Steps with AdvanceMin == 0 never trigger the jump.
func (w *Wizard) SubstantialData(step Step, update map[string]any) bool {
	if step.AdvanceMin <= 0 {
		return false
	}
	switch step.Kind {
	case KindObject:
		section, ok := asMap(update[step.Section])
		if !ok {
			return false
		}
		populated := 0
		for _, v := range section {
			if !valueEmpty(v) {
				populated++
			}
		}
		return populated >= step.AdvanceMin
	case KindArray:
		items, ok := asSlice(update[step.Section])
		return ok && len(items) >= step.AdvanceMin
	case KindMatrix:
		for _, name := range step.MatrixSections {
			if items, ok := asSlice(update[name]); ok && len(items) > 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (w *Wizard) evaluateObject(step Step, params map[string]any, rep *Report) {
	section, _ := asMap(params[step.Section])
	satisfied := 0
	for _, rule := range step.Fields {
		value, present := section[rule.Name]
		if !present || valueEmpty(value) {
			rep.Missing = append(rep.Missing, rule.Name)
			continue
		}
		if !rule.inRange(value) {
			rep.Missing = append(rep.Missing, rule.Name+" (out of range)")
			continue
		}
		satisfied++
	}
	if len(step.Fields) > 0 {
		rep.Fraction = float64(satisfied) / float64(len(step.Fields))
	}
	rep.Complete = satisfied == len(step.Fields)
}

func (w *Wizard) evaluateArray(step Step, params map[string]any, rep *Report) {
	items, _ := asSlice(params[step.Section])
	min := w.requiredCount(step, params)

	if min > 0 {
		rep.Fraction = float64(len(items)) / float64(min)
		if rep.Fraction > 1 {
			rep.Fraction = 1
		}
	}
	if len(items) < min {
		rep.Missing = append(rep.Missing, fmt.Sprintf("%d more %s entries needed", min-len(items), step.Section))
		return
	}

	// Every element must carry the required sub-fields.
	for _, rule := range step.Fields {
		for _, item := range items {
			elem, ok := asMap(item)
			if !ok || valueEmpty(elem[rule.Name]) || !rule.inRange(elem[rule.Name]) {
				rep.Missing = append(rep.Missing, rule.Name)
				break
			}
		}
	}
	rep.Complete = len(rep.Missing) == 0
}

func (w *Wizard) evaluateMatrix(step Step, params map[string]any, rep *Report) {
	side := w.scenarioCount(params, "numNodes")
	present := 0
	for _, name := range step.MatrixSections {
		rows, ok := asSlice(params[name])
		if !ok || len(rows) == 0 {
			rep.Missing = append(rep.Missing, name)
			continue
		}
		if side > 0 && len(rows) != side {
			rep.Missing = append(rep.Missing, fmt.Sprintf("%s must have %d rows", name, side))
			continue
		}
		present++
	}
	if len(step.MatrixSections) > 0 {
		rep.Fraction = float64(present) / float64(len(step.MatrixSections))
	}
	rep.Complete = present == len(step.MatrixSections)
}

// requiredCount resolves the minimum element count for an array step:
// the scenario field when configured and positive, else the static floor.
func (w *Wizard) requiredCount(step Step, params map[string]any) int {
	if step.MinCountField != "" {
		if n := w.scenarioCount(params, step.MinCountField); n > 0 {
			return n
		}
	}
	return step.MinCount
}

func (w *Wizard) scenarioCount(params map[string]any, field string) int {
	scenario, ok := asMap(params["scenario"])
	if !ok {
		return 0
	}
	f, ok := toFloat(scenario[field])
	if !ok {
		return 0
	}
	return int(f)
}

func (r FieldRule) inRange(value any) bool {
	if r.Min == nil && r.Max == nil {
		return true
	}
	f, ok := toFloat(value)
	if !ok {
		// Range rules only constrain numeric values.
		return true
	}
	if r.Min != nil && f < *r.Min {
		return false
	}
	if r.Max != nil && f > *r.Max {
		return false
	}
	return true
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	default:
		return 0, false
	}
}

func valueEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
