package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrMalformedAgentReply is returned when a reasoning agent answers with
// content that cannot be decoded into the expected result shape.
var ErrMalformedAgentReply = errors.New("malformed agent reply")

// FailureReason categorizes why a role call produced no usable result.
type FailureReason string

const (
	FailureTransport FailureReason = "transport" // call failed to reach or complete against the service
	FailureTimeout   FailureReason = "timeout"   // call exceeded its deadline
	FailureMalformed FailureReason = "malformed" // reply arrived but did not decode into the expected shape
)

// RoleFailure is the value-typed failure of a single reasoning role call.
// The orchestrator pattern-matches on Reason to pick the neutral default;
// a RoleFailure never propagates past the orchestrator.
type RoleFailure struct {
	Role   Role
	Reason FailureReason
	Err    error
}

func (f *RoleFailure) Error() string {
	return fmt.Sprintf("role %s failed (%s): %v", f.Role, f.Reason, f.Err)
}

func (f *RoleFailure) Unwrap() error {
	return f.Err
}
