package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Transport maps these to status codes; everything else is internal.
var (
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("access denied: role not permitted")
	ErrConflict     = errors.New("relationship conflict")
	ErrValidation   = errors.New("validation failed")

	// ErrAccessDenied is returned by the trainer gym-membership gate. It does not
	// say whether the customer is missing, has another role or sits in another gym.
	ErrAccessDenied = errors.New("user is not a member of your gym")
)

// Specific failures, all wrapping a taxonomy sentinel.
var (
	ErrGymNotFound          = fmt.Errorf("%w: gym not found", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrTrainerNotFound      = fmt.Errorf("%w: trainer not found", ErrNotFound)
	ErrMemberNotFound       = fmt.Errorf("%w: member not found", ErrNotFound)
	ErrWorkoutPlanNotFound  = fmt.Errorf("%w: workout plan not found", ErrNotFound)
	ErrDietPlanNotFound     = fmt.Errorf("%w: diet plan not found", ErrNotFound)
	ErrMacroLogNotFound     = fmt.Errorf("%w: macro log not found", ErrNotFound)
	ErrBodyProgressNotFound = fmt.Errorf("%w: body progress not found", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("%w: notification not found", ErrNotFound)

	ErrTrainerNotInGym     = fmt.Errorf("%w: trainer is not in your gym", ErrConflict)
	ErrMemberNotInGym      = fmt.Errorf("%w: member is not in your gym", ErrConflict)
	ErrTrainerWithoutGym   = fmt.Errorf("%w: trainer is not assigned to a gym", ErrConflict)
	ErrAmbiguousGym        = fmt.Errorf("%w: gym_id is required when you own more than one gym", ErrValidation)
	ErrUnsupportedCategory = fmt.Errorf("%w: unknown notification type", ErrValidation)
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// CascadeError reports the first failing step of a multi-step mutation.
// Steps listed in Applied stay applied.
type CascadeError struct {
	Step    string
	Applied []string
	Err     error
}

func (e *CascadeError) Error() string {
	if len(e.Applied) == 0 {
		return fmt.Sprintf("cascade step %q failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("cascade step %q failed after [%s]: %v", e.Step, strings.Join(e.Applied, ", "), e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// DispatchError collects notification events that could not be persisted.
type DispatchError struct {
	Failed []NotificationEvent
	Errs   []error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to dispatch %d notification(s): %v", len(e.Failed), errors.Join(e.Errs...))
}

func (e *DispatchError) Unwrap() []error { return e.Errs }
