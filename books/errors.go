/*
errors.go - Centralized error types for the books domain

PURPOSE:
  All domain error values in one place. Callers match with errors.Is;
  the API layer maps categories to HTTP status codes via the helpers
  at the bottom.

NOTE:
  The statement computation itself has no error path - it is a total
  function. These errors cover persistence and lifecycle rules only.
*/
package books

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateNumber is returned when a document number is already taken.
	ErrDuplicateNumber = errors.New("duplicate document number")

	// ErrInvalidTransition is returned for a disallowed contract status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMissingClient is returned when a record references an unknown client.
	ErrMissingClient = errors.New("client does not exist")

	// ErrSignatureRequired is returned when signing without a signatory.
	ErrSignatureRequired = errors.New("signature requires a signatory")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// TransitionError reports a rejected contract status change.
type TransitionError struct {
	ContractID string
	From       ContractStatus
	To         ContractStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("contract %s: cannot transition %s -> %s", e.ContractID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMissingClient)
}

// IsClientError reports whether the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateNumber) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrSignatureRequired)
}
