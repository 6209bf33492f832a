package services

import (
	"errors"
	"fmt"

	"property-marketplace-backend/db/models"
)

// Business-rule errors are surfaced to the caller synchronously and block the
// UI action. Transient errors are retryable at the caller's discretion; the
// engine never retries internally.
var (
	// ErrDuplicateRequest: an active request of the same kind already exists
	// for the (property, client) pair. Non-retryable.
	ErrDuplicateRequest = errors.New("an active request of this kind already exists for this property")

	// ErrUnauthorizedTransition: the actor does not hold the role the
	// transition requires. Non-retryable.
	ErrUnauthorizedTransition = errors.New("actor is not authorized for this transition")

	// ErrRemoteUnavailable: transient store failure. Retryable. Read-only
	// conflict checks fail open on this; mutating transitions never do.
	ErrRemoteUnavailable = errors.New("record store unavailable")

	ErrActivityNotFound = errors.New("activity not found")
	ErrPropertyNotFound = errors.New("property not found")
)

// InvalidTransitionError reports a transition that is not legal from the
// record's current status. It always names the current state and the
// requested move.
type InvalidTransitionError struct {
	Kind      models.ActivityKind
	Current   models.ActivityStatus
	Requested models.ActivityStatus
	// Action names a requested move that is not itself a status, such as a
	// verification submission.
	Action string
}

func (e *InvalidTransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("invalid %s transition: cannot %s from %s", e.Kind, e.Action, e.Current)
	}
	return fmt.Sprintf("invalid %s transition: %s -> %s", e.Kind, e.Current, e.Requested)
}

// ErrInvalidStateTransition is the sentinel matched by errors.Is against
// *InvalidTransitionError values.
var ErrInvalidStateTransition = errors.New("invalid state transition")

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// ValidationError is a field-scoped input error. Non-retryable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

var ErrValidation = errors.New("validation failed")

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
