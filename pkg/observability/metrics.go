// Package observability exports Prometheus metrics for wizard activity,
// fed by the engine's lifecycle hooks.
package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

// Metrics holds the wizard's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	turnsTotal   *prometheus.CounterVec
	roleCalls    *prometheus.CounterVec
	roleDuration *prometheus.HistogramVec
	stepChanges  prometheus.Counter
	currentStep  *prometheus.GaugeVec
}

// New creates and registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltwiz",
			Name:      "turns_total",
			Help:      "Processed conversational turns by flow type.",
		}, []string{"flow_type"}),
		roleCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltwiz",
			Name:      "role_calls_total",
			Help:      "Reasoning role calls by role and outcome.",
		}, []string{"role", "outcome"}),
		roleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voltwiz",
			Name:      "role_call_duration_seconds",
			Help:      "Reasoning role call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"role"}),
		stepChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voltwiz",
			Name:      "step_changes_total",
			Help:      "Wizard step advances across all sessions.",
		}),
		currentStep: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "voltwiz",
			Name:      "session_current_step",
			Help:      "Current wizard step per session.",
		}, []string{"session_id"}),
	}

	m.registry.MustRegister(m.turnsTotal, m.roleCalls, m.roleDuration, m.stepChanges, m.currentStep)
	return m
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that update the collectors. Register them
// on the wizard with WithHooks.
func (m *Metrics) Hooks() *domain.LifecycleHooks {
	return &domain.LifecycleHooks{
		OnTurnEnd: func(_ context.Context, e *domain.TurnEvent) {
			m.turnsTotal.WithLabelValues(string(e.FlowType)).Inc()
			m.currentStep.WithLabelValues(e.SessionID).Set(float64(e.Step))
		},
		OnRoleReturn: func(_ context.Context, e *domain.RoleEvent) {
			outcome := "ok"
			if e.Failed {
				outcome = "failed"
			}
			m.roleCalls.WithLabelValues(string(e.Role), outcome).Inc()
			m.roleDuration.WithLabelValues(string(e.Role)).Observe(e.Duration.Seconds())
		},
		OnStepChange: func(_ context.Context, e *domain.StepEvent) {
			m.stepChanges.Inc()
		},
	}
}
