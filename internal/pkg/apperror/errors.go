// Package apperror defines the error taxonomy of the cancellation gateway.
// Each stage of the request pipeline fails with exactly one of these kinds;
// anything else is treated as unexpected and sanitized at the edge.
package apperror

import (
	"fmt"
	"strings"
)

// ValidationError carries the complete list of violated payload rules.
// It is always surfaced whole, never one rule at a time.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// AuthorizationError signals that the accessKey/clientId pairing is not
// registered. The message is deliberately generic so callers cannot tell
// an unknown accessKey apart from a wrong pairing.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func NewAuthorizationError() *AuthorizationError {
	return &AuthorizationError{Message: "client is not authorized to cancel this DCe"}
}

// DependencyError wraps a failed collaborator call (queue publish, store
// upsert, authorization lookup). Op names the failed operation.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func NewDependencyError(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}
