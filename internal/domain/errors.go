package domain

import (
	"errors"
	"fmt"
)

// Root classes. Every error returned by the application layer wraps exactly one of these,
// so callers branch with errors.Is instead of comparing messages.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrListingNotFound      = fmt.Errorf("listing %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrConversationNotFound = fmt.Errorf("conversation %w", ErrNotFound)
	ErrSavedSearchNotFound  = fmt.Errorf("saved search %w", ErrNotFound)

	ErrEmptyMessage        = fmt.Errorf("%w: message content is empty", ErrValidation)
	ErrInvalidParticipants = fmt.Errorf("%w: a conversation needs exactly two distinct participants", ErrValidation)
	ErrNotParticipant      = fmt.Errorf("%w: sender is not a participant of the conversation", ErrValidation)
	ErrInvalidPrice        = fmt.Errorf("%w: price must be a non-negative whole number", ErrValidation)
	ErrInvalidStatus       = fmt.Errorf("%w: invalid listing status", ErrValidation)
	ErrInvalidTransition   = fmt.Errorf("%w: sold listings cannot change status", ErrValidation)
	ErrEmailTaken          = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrNotListingOwner     = fmt.Errorf("%w: only the seller can change this listing", ErrForbidden)
)

// ValidationError reports a single invalid field at the boundary.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidationErrors collects field errors; it unwraps to ErrValidation as well.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ErrValidation.Error()
	}
	msg := v[0].Error()
	if len(v) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(v)-1)
	}
	return msg
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidation
}
