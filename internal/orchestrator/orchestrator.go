// Package orchestrator runs the reasoning roles a flow decision calls for,
// in a fixed order, and degrades per role instead of failing the turn.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/voltwiz/voltwiz/internal/logging"
	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/ports"
)

// DefaultRoleTimeout bounds a single reasoning role call.
const DefaultRoleTimeout = 30 * time.Second

// historyWindow is how many recent messages the conversation role sees.
const historyWindow = 8

// Result collects what one turn's role calls produced. Pointers are always
// non-nil for roles that ran (neutral defaults substitute for failures) and
// nil for roles the flow skipped.
type Result struct {
	Understanding  *domain.UnderstandingResult
	Validation     *domain.ValidationResult
	Recommendation *domain.RecommendationResult
	Conversation   *domain.ConversationResult

	Trace domain.Trace

	// Fallback is true when the plan-driven path aborted and the fixed
	// flow-type router produced this result instead.
	Fallback bool
}

// Orchestrator executes role plans against a reasoning client.
type Orchestrator struct {
	client      ports.ReasoningClient
	logger      *slog.Logger
	hooks       *domain.LifecycleHooks
	roleTimeout time.Duration
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithHooks installs lifecycle callbacks for role calls.
func WithHooks(hooks *domain.LifecycleHooks) Option {
	return func(o *Orchestrator) { o.hooks = hooks }
}

// WithRoleTimeout overrides the per-call deadline.
func WithRoleTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.roleTimeout = d
		}
	}
}

// New creates an Orchestrator backed by the given reasoning client.
func New(client ports.ReasoningClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:      client,
		logger:      logging.NewNop(),
		roleTimeout: DefaultRoleTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the decision's roles in order (understanding, validation,
// recommendation, then conversation) and mutates the session's workflow
// state as results arrive. A failed role yields its neutral default and the
// turn continues. If the plan-driven path panics, the fixed flow-type
// router reruns the turn; the turn itself never fails.
func (o *Orchestrator) Run(ctx context.Context, session *domain.Session, message string, decision domain.FlowDecision) *Result {
	result, err := o.runPlanned(ctx, session, message, decision)
	if err == nil {
		return result
	}

	o.logger.Error("Plan-driven orchestration aborted, rerouting through flow table",
		"session_id", session.ID,
		"flow_type", string(decision.FlowType),
		"err", err,
	)
	return o.runFallback(ctx, session, message, decision.FlowType)
}

// runPlanned follows the decision's role flags. The deferred recover turns a
// panic anywhere in the path into an error for the fallback router.
func (o *Orchestrator) runPlanned(ctx context.Context, session *domain.Session, message string, decision domain.FlowDecision) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("orchestration panic: %v", r)
		}
	}()

	result = &Result{}
	o.execute(ctx, session, message, result, roleSet{
		understanding:  decision.RequiresUnderstanding,
		validation:     decision.RequiresValidation,
		recommendation: decision.RequiresRecommendation,
		conditional:    decision.FlowType.Plan().Recommendation == domain.RecommendConditional,
	})
	return result, nil
}

// runFallback ignores the decision flags and executes the fixed plan for
// the flow type. It runs with full neutral-default degradation and cannot
// abort: every path ends in a conversation result.
func (o *Orchestrator) runFallback(ctx context.Context, session *domain.Session, message string, flowType domain.FlowType) *Result {
	plan := flowType.Plan()
	result := &Result{Fallback: true}
	result.Trace.Add(
		fmt.Sprintf("plan-driven path failed, routing %s through the fixed flow table", flowType),
		"fallback_route", "",
	)
	o.execute(ctx, session, message, result, roleSet{
		understanding:  plan.Understanding,
		validation:     plan.Validation,
		recommendation: plan.Recommendation != domain.RecommendNever,
		conditional:    plan.Recommendation == domain.RecommendConditional,
	})
	return result
}

// roleSet is the resolved set of roles one execution pass runs.
type roleSet struct {
	understanding  bool
	validation     bool
	recommendation bool
	conditional    bool
}

// execute runs the role sequence and applies results to the workflow state
// immediately, so each later role observes its predecessors' output.
func (o *Orchestrator) execute(ctx context.Context, session *domain.Session, message string, result *Result, roles roleSet) {
	w := session.Workflow

	if roles.understanding {
		result.Understanding = o.runUnderstanding(ctx, session, message, result)
		if result.Understanding.HasData() {
			domain.MergeParameters(w.ExtractedParameters, result.Understanding.Parameters)
		}
	}

	if roles.validation {
		result.Validation = o.runValidation(ctx, session, result)
		w.ValidationResults = result.Validation
	}

	if roles.recommendation {
		if roles.conditional && !o.recommendationWanted(message, w) {
			result.Recommendation = domain.SkippedRecommendation()
			result.Trace.Add(
				"no recommendation intent and validation is not failing",
				"skip_recommendation", "skipped",
			)
		} else {
			result.Recommendation = o.runRecommendation(ctx, session, result)
		}
		w.Recommendations = result.Recommendation
	}

	result.Conversation = o.runConversation(ctx, session, message, result)
}

// recommendationWanted is the conditional-recommendation heuristic: explicit
// intent in the message, or a failing validation verdict on record.
func (o *Orchestrator) recommendationWanted(message string, w *domain.WorkflowState) bool {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "recommend") || strings.Contains(lower, "suggest") {
		return true
	}
	return w.ValidationResults != nil && !w.ValidationResults.IsValid
}

func (o *Orchestrator) runUnderstanding(ctx context.Context, session *domain.Session, message string, result *Result) *domain.UnderstandingResult {
	i := result.Trace.Add("extract configuration data from the message", string(domain.RoleUnderstanding), "")

	out := &domain.UnderstandingResult{}
	err := o.call(ctx, session, domain.RoleUnderstanding, message, understandingContext(session), out)
	if err != nil {
		o.warnRole(session, err)
		result.Trace.Observe(i, failureObservation(err))
		return domain.NeutralUnderstanding()
	}
	result.Trace.Observe(i, fmt.Sprintf("extracted %d section(s)", len(out.Parameters)))
	return out
}

func (o *Orchestrator) runValidation(ctx context.Context, session *domain.Session, result *Result) *domain.ValidationResult {
	i := result.Trace.Add("validate the accumulated configuration", string(domain.RoleValidation), "")

	out := &domain.ValidationResult{}
	err := o.call(ctx, session, domain.RoleValidation, "", validationContext(session), out)
	if err != nil {
		o.warnRole(session, err)
		result.Trace.Observe(i, failureObservation(err))
		return domain.NeutralValidation()
	}
	result.Trace.Observe(i, fmt.Sprintf("valid=%t score=%.2f", out.IsValid, out.Score))
	return out
}

func (o *Orchestrator) runRecommendation(ctx context.Context, session *domain.Session, result *Result) *domain.RecommendationResult {
	i := result.Trace.Add("recommend values for missing or weak fields", string(domain.RoleRecommendation), "")

	out := &domain.RecommendationResult{}
	err := o.call(ctx, session, domain.RoleRecommendation, "", recommendationContext(session), out)
	if err != nil {
		o.warnRole(session, err)
		result.Trace.Observe(i, failureObservation(err))
		return domain.NeutralRecommendation()
	}
	result.Trace.Observe(i, fmt.Sprintf("%d recommendation(s)", len(out.Items)))
	return out
}

func (o *Orchestrator) runConversation(ctx context.Context, session *domain.Session, message string, result *Result) *domain.ConversationResult {
	i := result.Trace.Add("compose the reply", string(domain.RoleConversation), "")

	out := &domain.ConversationResult{}
	err := o.call(ctx, session, domain.RoleConversation, message, conversationContext(session, result), out)
	if err != nil || out.Message == "" {
		if err != nil {
			o.warnRole(session, err)
			result.Trace.Observe(i, failureObservation(err))
		} else {
			result.Trace.Observe(i, "empty reply")
		}
		return domain.NeutralConversation()
	}
	result.Trace.Observe(i, "reply composed")
	return out
}

// call performs one role invocation with its own deadline, decodes the
// reply into out, and wraps every failure mode in a RoleFailure.
func (o *Orchestrator) call(ctx context.Context, session *domain.Session, role domain.Role, userText string, contextPayload any, out any) error {
	snapshot, err := json.Marshal(contextPayload)
	if err != nil {
		return &domain.RoleFailure{Role: role, Reason: domain.FailureMalformed, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.roleTimeout)
	defer cancel()

	o.emitRoleCall(ctx, session.ID, role)
	start := time.Now()
	raw, err := o.client.Invoke(callCtx, ports.AgentRequest{
		Role:     role,
		UserText: userText,
		Context:  snapshot,
	})
	elapsed := time.Since(start)

	if err != nil {
		reason := domain.FailureTransport
		if errors.Is(err, context.DeadlineExceeded) {
			reason = domain.FailureTimeout
		}
		o.emitRoleReturn(ctx, session.ID, role, elapsed, true)
		return &domain.RoleFailure{Role: role, Reason: reason, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		o.emitRoleReturn(ctx, session.ID, role, elapsed, true)
		return &domain.RoleFailure{
			Role:   role,
			Reason: domain.FailureMalformed,
			Err:    fmt.Errorf("%w: %v", domain.ErrMalformedAgentReply, err),
		}
	}
	o.emitRoleReturn(ctx, session.ID, role, elapsed, false)
	return nil
}

func (o *Orchestrator) warnRole(session *domain.Session, err error) {
	var failure *domain.RoleFailure
	if errors.As(err, &failure) {
		o.logger.Warn("Reasoning role failed, substituting neutral default",
			"session_id", session.ID,
			"role", string(failure.Role),
			"reason", string(failure.Reason),
			"err", failure.Err,
		)
		return
	}
	o.logger.Warn("Reasoning role failed, substituting neutral default",
		"session_id", session.ID, "err", err)
}

func failureObservation(err error) string {
	var failure *domain.RoleFailure
	if errors.As(err, &failure) {
		return fmt.Sprintf("failed (%s), neutral default substituted", failure.Reason)
	}
	return "failed, neutral default substituted"
}

func (o *Orchestrator) emitRoleCall(ctx context.Context, sessionID string, role domain.Role) {
	if o.hooks == nil || o.hooks.OnRoleCall == nil {
		return
	}
	o.hooks.OnRoleCall(ctx, &domain.RoleEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRoleCall, SessionID: sessionID},
		Role:      role,
	})
}

func (o *Orchestrator) emitRoleReturn(ctx context.Context, sessionID string, role domain.Role, d time.Duration, failed bool) {
	if o.hooks == nil || o.hooks.OnRoleReturn == nil {
		return
	}
	o.hooks.OnRoleReturn(ctx, &domain.RoleEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRoleReturn, SessionID: sessionID},
		Role:      role,
		Duration:  d,
		Failed:    failed,
	})
}
