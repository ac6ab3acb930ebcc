// Package navigation decides, after each turn, which wizard step the
// session should be on. Decisions are pure functions of the turn's inputs
// against the wizard schema; the engine moves forward one step at a time
// and never regresses a session.
package navigation

import (
	"fmt"

	"log/slog"

	"github.com/voltwiz/voltwiz/internal/logging"
	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/schema"
)

const (
	// criticalScore is the validation score below which the session holds
	// its step regardless of completeness.
	criticalScore = 0.5
	// acceptableScore lets a complete step advance even when the verdict
	// is not flagged valid outright.
	acceptableScore = 0.7
)

// Input is everything one navigation decision may consider.
type Input struct {
	// CurrentStep is the session's step before this turn.
	CurrentStep int
	// Update holds only the sections extracted this turn, not the whole
	// document.
	Update map[string]any
	// Parameters is the full document after the turn's merge.
	Parameters map[string]any
	// UserIntent is the understanding role's intent marker.
	UserIntent string
	// Validation is this turn's verdict, nil when the role did not run.
	Validation *domain.ValidationResult
}

// Decision is the engine's verdict: the step to be on and why.
type Decision struct {
	Step   int           `json:"step"`
	Reason string        `json:"reason"`
	Report schema.Report `json:"report"`
}

// Engine evaluates navigation decisions against a wizard definition.
type Engine struct {
	wizard *schema.Wizard
	logger *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine for the given wizard. A nil wizard gets the
// built-in default.
func New(wizard *schema.Wizard, opts ...Option) *Engine {
	if wizard == nil {
		wizard = schema.Default()
	}
	e := &Engine{wizard: wizard, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Wizard returns the engine's wizard definition.
func (e *Engine) Wizard() *schema.Wizard {
	return e.wizard
}

// Next decides the session's step after a turn. The rules apply in order;
// the first that matches wins. Advancing always means exactly one step,
// clamped to the wizard's range. Any internal panic is absorbed and the
// session holds its current step.
func (e *Engine) Next(in Input) (decision Decision) {
	current := e.wizard.Clamp(in.CurrentStep)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Navigation decision panicked, holding current step",
				"step", current, "err", fmt.Sprint(r))
			decision = Decision{
				Step:   current,
				Reason: "stay: decision error",
				Report: e.wizard.Evaluate(current, in.Parameters),
			}
		}
	}()

	report := e.wizard.Evaluate(current, in.Parameters)
	stay := func(reason string) Decision {
		return Decision{Step: current, Reason: reason, Report: report}
	}
	advance := func(reason string) Decision {
		return Decision{Step: e.wizard.Clamp(current + 1), Reason: reason, Report: report}
	}

	if in.UserIntent == domain.UserIntentAdvance {
		return advance("advance: explicit request")
	}

	if next, ok := e.wizard.Step(current + 1); ok && e.wizard.SubstantialData(next, in.Update) {
		return advance(fmt.Sprintf("advance: substantial %s data supplied", next.Name))
	}

	// Critical issues veto every completeness-based advance below; only an
	// explicit request or substantial next-step data outranks them.
	if in.Validation != nil && in.Validation.Score < criticalScore {
		return stay("stay: critical validation issues")
	}

	if step, ok := e.wizard.Step(current); ok &&
		step.MostlyCompleteFrac > 0 && report.Fraction >= step.MostlyCompleteFrac {
		return advance(fmt.Sprintf("advance: step %.0f%% populated", report.Fraction*100))
	}

	if report.Complete && validationAcceptable(in.Validation) {
		return advance("advance: step complete")
	}

	if len(in.Update) == 0 {
		return stay("stay: no new data")
	}

	return stay("stay: step incomplete")
}

// validationAcceptable treats an absent verdict as acceptable; completeness
// alone then decides.
func validationAcceptable(v *domain.ValidationResult) bool {
	if v == nil {
		return true
	}
	return v.IsValid || v.Score >= acceptableScore
}
