/*
errors.go - Centralized error types for the daybook engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context; the HTTP
  layer maps them to status codes with the helpers at the bottom.

ERROR CATEGORIES:
  1. Validation errors - Malformed input (bad dates, out-of-month records)
  2. Lookup errors - Missing clients, projects, invoices, tax years
  3. State errors - Operations not allowed in the current state

USAGE:
  if errors.Is(err, generic.ErrInvalidInput) {
      // 400
  }

  var ve *generic.ValidationError
  if errors.As(err, &ve) {
      fmt.Println(ve.Field, ve.Reason)
  }

SEE ALSO:
  - api/handlers.go: writeServiceError maps these to HTTP statuses
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when input cannot be interpreted
	// (malformed dates, unknown day types, negative rates).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation is not allowed in the
	// record's current state (paying a cancelled invoice, duplicate dates).
	ErrConflict = errors.New("conflict")

	// ErrUnknownFinancialYear is returned when no tax regime is configured
	// for the requested financial year.
	ErrUnknownFinancialYear = errors.New("no tax regime for financial year")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes one rejected input value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StateError is returned when a record cannot move from its current state.
type StateError struct {
	Kind   string
	ID     string
	State  string
	Action string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s %s in state %s", e.Action, e.Kind, e.ID, e.State)
}

func (e *StateError) Unwrap() error { return ErrConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnknownFinancialYear)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if the error indicates a state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
