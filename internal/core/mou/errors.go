package mou

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lifecycle engine. Services and adapters wrap these
// with fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is regardless of where they surfaced.
var (
	// ErrNotFound indicates an unknown MoU or deliverable ID.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition indicates a status pair absent from the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMissingRequiredField indicates a transition whose required fields are unmet.
	ErrMissingRequiredField = errors.New("required field missing for transition")

	// ErrValidation indicates malformed input, e.g. fewer than two parties on create.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates an optimistic-concurrency failure at save time,
	// or a conflicting open renewal process.
	ErrConflict = errors.New("conflict")
)

func wrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
