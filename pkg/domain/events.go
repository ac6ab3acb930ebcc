package domain

import (
	"context"
	"time"
)

// EventType names the lifecycle event category.
type EventType string

const (
	EventTurnStart  EventType = "turn_start"
	EventTurnEnd    EventType = "turn_end"
	EventRoleCall   EventType = "role_call"
	EventRoleReturn EventType = "role_return"
	EventStepChange EventType = "step_change"
)

// EventBase carries the fields every lifecycle event shares.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TurnEvent marks the start or end of one message's processing.
type TurnEvent struct {
	EventBase
	FlowType FlowType `json:"flow_type,omitempty"`
	Step     int      `json:"step"`
}

// RoleEvent marks a reasoning role call or its return.
type RoleEvent struct {
	EventBase
	Role     Role          `json:"role"`
	Duration time.Duration `json:"duration,omitempty"`
	Failed   bool          `json:"failed,omitempty"`
}

// StepEvent marks a wizard step change decided by the navigation engine.
type StepEvent struct {
	EventBase
	From int `json:"from"`
	To   int `json:"to"`
}

// LifecycleHooks defines callbacks for wizard observability.
type LifecycleHooks struct {
	OnTurnStart  func(context.Context, *TurnEvent)
	OnTurnEnd    func(context.Context, *TurnEvent)
	OnRoleCall   func(context.Context, *RoleEvent)
	OnRoleReturn func(context.Context, *RoleEvent)
	OnStepChange func(context.Context, *StepEvent)
}
