package voltwiz

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/voltwiz/voltwiz/internal/assembler"
	"github.com/voltwiz/voltwiz/internal/classifier"
	"github.com/voltwiz/voltwiz/internal/logging"
	"github.com/voltwiz/voltwiz/internal/navigation"
	"github.com/voltwiz/voltwiz/internal/orchestrator"
	"github.com/voltwiz/voltwiz/pkg/adapters/memory"
	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/ports"
	"github.com/voltwiz/voltwiz/pkg/schema"
	"github.com/voltwiz/voltwiz/pkg/session"
)

// Wizard is the conversational configuration engine. One instance serves
// many sessions concurrently; messages for the same session are processed
// strictly one at a time.
type Wizard struct {
	sessions   *session.Manager
	classifier *classifier.Classifier
	orch       *orchestrator.Orchestrator
	navigator  *navigation.Engine

	store        ports.SessionStore
	locker       ports.DistributedLocker
	client       ports.ReasoningClient
	wizardSchema *schema.Wizard
	logger       *slog.Logger
	hooks        []*domain.LifecycleHooks
	historyLimit int
	roleTimeout  time.Duration
}

// Option configures the Wizard.
type Option func(*Wizard)

// WithStore replaces the default in-memory session store.
func WithStore(store ports.SessionStore) Option {
	return func(w *Wizard) { w.store = store }
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(w *Wizard) { w.locker = locker }
}

// WithLogger configures the logger used across all components.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) { w.logger = logger }
}

// WithHooks registers lifecycle callbacks. May be used multiple times;
// every registered hook set observes every event.
func WithHooks(hooks *domain.LifecycleHooks) Option {
	return func(w *Wizard) {
		if hooks != nil {
			w.hooks = append(w.hooks, hooks)
		}
	}
}

// WithSchema replaces the built-in wizard step definition.
func WithSchema(s *schema.Wizard) Option {
	return func(w *Wizard) { w.wizardSchema = s }
}

// WithHistoryLimit overrides the per-session conversation history cap.
func WithHistoryLimit(n int) Option {
	return func(w *Wizard) { w.historyLimit = n }
}

// WithRoleTimeout overrides the per-role-call deadline.
func WithRoleTimeout(d time.Duration) Option {
	return func(w *Wizard) { w.roleTimeout = d }
}

// New creates a Wizard backed by the given reasoning client.
func New(client ports.ReasoningClient, opts ...Option) (*Wizard, error) {
	if client == nil {
		return nil, fmt.Errorf("a reasoning client is required")
	}

	w := &Wizard{
		client:       client,
		store:        memory.NewStore(),
		wizardSchema: schema.Default(),
		logger:       logging.NewNop(),
		historyLimit: domain.DefaultHistoryLimit,
		roleTimeout:  orchestrator.DefaultRoleTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}

	sessionOpts := []session.Option{session.WithLogger(w.logger)}
	if w.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(w.locker))
	}
	w.sessions = session.NewManager(w.store, sessionOpts...)

	hooks := w.fanoutHooks()
	w.classifier = classifier.New(client, classifier.WithLogger(w.logger))
	w.orch = orchestrator.New(client,
		orchestrator.WithLogger(w.logger),
		orchestrator.WithHooks(hooks),
		orchestrator.WithRoleTimeout(w.roleTimeout),
	)
	w.navigator = navigation.New(w.wizardSchema, navigation.WithLogger(w.logger))
	return w, nil
}

// ProcessMessage runs one conversational turn. An empty session ID starts a
// new session; the assigned ID comes back in the response. The turn always
// produces a reply: role failures degrade to neutral defaults inside the
// orchestrator.
func (w *Wizard) ProcessMessage(ctx context.Context, sessionID, message string) (*domain.TurnResponse, error) {
	if message == "" {
		return nil, fmt.Errorf("message must not be empty")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var resp *domain.TurnResponse
	err := w.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := w.loadOrCreate(ctx, sessionID)
		if err != nil {
			return err
		}

		w.emitTurn(ctx, domain.EventTurnStart, sess, "")
		resp = w.processTurn(ctx, sess, message)
		w.emitTurn(ctx, domain.EventTurnEnd, sess, resp.FlowDecision.FlowType)

		if err := w.sessions.Store().Save(ctx, sess); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// processTurn is the per-message pipeline, executed under the session lock.
func (w *Wizard) processTurn(ctx context.Context, sess *domain.Session, message string) *domain.TurnResponse {
	workflow := sess.Workflow
	before := workflow.CurrentStep

	decision := w.classifier.Classify(ctx, message, workflow, sess.History)
	result := w.orch.Run(ctx, sess, message, decision)

	nav := w.navigator.Next(navigation.Input{
		CurrentStep: workflow.CurrentStep,
		Update:      turnUpdate(result),
		Parameters:  workflow.ExtractedParameters,
		UserIntent:  turnIntent(result),
		Validation:  result.Validation,
	})
	workflow.CurrentStep = nav.Step

	workflow.LastFlowType = decision.FlowType
	if result.Fallback {
		workflow.ReactTrace = nil
		workflow.OrchestrationTrace = result.Trace
	} else {
		workflow.ReactTrace = result.Trace
		workflow.OrchestrationTrace = nil
	}

	resp := assembler.Assemble(sess.ID, decision, result, nav, sess)

	// History grows only after the turn fully resolves.
	sess.History.Limit = w.historyLimit
	sess.History.Append(domain.MessageRoleUser, message)
	sess.History.Append(domain.MessageRoleAgent, resp.Message)

	if nav.Step != before {
		w.logger.Info("Session moved to a new step",
			"session_id", sess.ID, "from", before, "to", nav.Step, "reason", nav.Reason)
		w.emitStepChange(ctx, sess.ID, before, nav.Step)
	}
	return resp
}

// loadOrCreate runs under the caller's session lock, so it talks to the
// store directly instead of re-entering the manager.
func (w *Wizard) loadOrCreate(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := w.sessions.Store().Load(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if err != domain.ErrSessionNotFound {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	sess = domain.NewSession(sessionID)
	sess.History.Limit = w.historyLimit
	return sess, nil
}

// Status is a read-only session snapshot for callers and tooling.
type Status struct {
	SessionID    string                   `json:"sessionId"`
	CurrentStep  int                      `json:"currentStep"`
	StepName     string                   `json:"stepName"`
	StepTitle    string                   `json:"stepTitle,omitempty"`
	Parameters   map[string]any           `json:"parameters"`
	Validation   *domain.ValidationResult `json:"validation,omitempty"`
	HistoryLen   int                      `json:"historyLen"`
	Completeness []schema.Report          `json:"completeness"`
}

// SessionStatus reports a session's current position and data coverage.
func (w *Wizard) SessionStatus(ctx context.Context, sessionID string) (*Status, error) {
	sess, err := w.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	status := &Status{
		SessionID:    sess.ID,
		CurrentStep:  sess.Workflow.CurrentStep,
		Parameters:   sess.Workflow.ExtractedParameters,
		Validation:   sess.Workflow.ValidationResults,
		HistoryLen:   sess.History.Len(),
		Completeness: w.wizardSchema.EvaluateAll(sess.Workflow.ExtractedParameters),
	}
	if step, ok := w.wizardSchema.Step(sess.Workflow.CurrentStep); ok {
		status.StepName = step.Name
		status.StepTitle = step.Title
	}
	return status, nil
}

// ClearSession discards a session's state. Clearing an unknown session is
// not an error; the next message starts fresh either way.
func (w *Wizard) ClearSession(ctx context.Context, sessionID string) error {
	return w.sessions.Delete(ctx, sessionID)
}

// Sessions lists the IDs of all stored sessions.
func (w *Wizard) Sessions(ctx context.Context) ([]string, error) {
	return w.sessions.List(ctx)
}

// Schema returns the active wizard definition.
func (w *Wizard) Schema() *schema.Wizard {
	return w.wizardSchema
}

// turnUpdate is the set of sections extracted this turn, empty when the
// understanding role did not run or produced nothing.
func turnUpdate(result *orchestrator.Result) map[string]any {
	if result.Understanding == nil || !result.Understanding.HasData() {
		return nil
	}
	return result.Understanding.Parameters
}

func turnIntent(result *orchestrator.Result) string {
	if result.Understanding == nil {
		return ""
	}
	return result.Understanding.UserIntent
}

// fanoutHooks flattens the registered hook sets into one that forwards
// every event to all of them.
func (w *Wizard) fanoutHooks() *domain.LifecycleHooks {
	if len(w.hooks) == 0 {
		return nil
	}
	sets := w.hooks
	return &domain.LifecycleHooks{
		OnTurnStart: func(ctx context.Context, e *domain.TurnEvent) {
			for _, h := range sets {
				if h.OnTurnStart != nil {
					h.OnTurnStart(ctx, e)
				}
			}
		},
		OnTurnEnd: func(ctx context.Context, e *domain.TurnEvent) {
			for _, h := range sets {
				if h.OnTurnEnd != nil {
					h.OnTurnEnd(ctx, e)
				}
			}
		},
		OnRoleCall: func(ctx context.Context, e *domain.RoleEvent) {
			for _, h := range sets {
				if h.OnRoleCall != nil {
					h.OnRoleCall(ctx, e)
				}
			}
		},
		OnRoleReturn: func(ctx context.Context, e *domain.RoleEvent) {
			for _, h := range sets {
				if h.OnRoleReturn != nil {
					h.OnRoleReturn(ctx, e)
				}
			}
		},
		OnStepChange: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range sets {
				if h.OnStepChange != nil {
					h.OnStepChange(ctx, e)
				}
			}
		},
	}
}

func (w *Wizard) emitTurn(ctx context.Context, typ domain.EventType, sess *domain.Session, flowType domain.FlowType) {
	hooks := w.fanoutHooks()
	if hooks == nil {
		return
	}
	event := &domain.TurnEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, SessionID: sess.ID},
		FlowType:  flowType,
		Step:      sess.Workflow.CurrentStep,
	}
	if typ == domain.EventTurnStart && hooks.OnTurnStart != nil {
		hooks.OnTurnStart(ctx, event)
	}
	if typ == domain.EventTurnEnd && hooks.OnTurnEnd != nil {
		hooks.OnTurnEnd(ctx, event)
	}
}

func (w *Wizard) emitStepChange(ctx context.Context, sessionID string, from, to int) {
	hooks := w.fanoutHooks()
	if hooks == nil || hooks.OnStepChange == nil {
		return
	}
	hooks.OnStepChange(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepChange, SessionID: sessionID},
		From:      from,
		To:        to,
	})
}
