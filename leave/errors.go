/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error kinds reported by the core in one place. The lifecycle package
  and the API layer match on these with errors.Is and map them to transport
  status codes.

ERROR CATEGORIES:
  1. Entry errors - malformed date/time ranges
  2. Submission errors - precondition violations at submit time
  3. Lifecycle errors - invalid state transitions and lookups

All errors are reported synchronously to the caller; nothing is retried
internally. A retry is the caller's responsibility and must re-validate
state first.
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when an entry's end date is before its
	// start date, or a partial-day entry's end time is not after its start.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInsufficientBalance is returned when the projected balance would
	// go negative at submit time. This is a hard block, not a warning.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrMissingReason is returned when a submission or rejection carries
	// an empty justification string.
	ErrMissingReason = errors.New("missing reason")

	// ErrNoEntries is returned when a submission is built with no entries.
	ErrNoEntries = errors.New("no entries")

	// ErrNotFound is returned when a request id does not exist in the store.
	ErrNotFound = errors.New("request not found")

	// ErrAlreadyTerminal is returned when a transition is attempted on a
	// request that is already Approved or Rejected.
	ErrAlreadyTerminal = errors.New("request already in terminal state")

	// ErrInvalidTransition is returned for any transition outside
	// Submitted->Approved and Submitted->Rejected.
	ErrInvalidTransition = errors.New("invalid transition")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError reports how short a submission fell.
type InsufficientBalanceError struct {
	Category  Category
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: available %s, requested %s",
		e.Category, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// RangeError reports a malformed entry range.
type RangeError struct {
	Start  Date
	End    Date
	Detail string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range %s..%s: %s", e.Start, e.End, e.Detail)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// or a precondition the caller should have checked.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrMissingReason) ||
		errors.Is(err, ErrNoEntries)
}

// IsConflict returns true if the error indicates stale caller state
// (a transition raced with another, or the request was already decided).
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyTerminal) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsNotFound returns true if the error indicates a missing request.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
