/*
errors.go - Centralized error types for the booking engine

PURPOSE:
  All error conditions in one place for consistency and discoverability.
  Every failure here is recoverable by the caller: the engine validates and
  fails fast before mutating anything, so no rollback logic exists.

ERROR CATEGORIES:
  1. Lookup errors   - Unknown client, technician, or appointment
  2. Input errors    - Malformed calendar dates
  3. Slot conflicts  - Booking a taken slot, duplicate/missing availability

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, booking.ErrSlotUnavailable) {
        // offer the remaining open slots instead
    }

SEE ALSO:
  - engine.go: Produces these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package booking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownParty is returned when a referenced client or technician
	// identifier cannot be resolved.
	ErrUnknownParty = errors.New("unknown client or technician")

	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date format (use YYYY-MM-DD)")

	// ErrSlotUnavailable is returned when the requested date+time is not open
	// for that technician (already booked, or never scheduled).
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrAlreadyAvailable is returned when adding a slot that is already open.
	ErrAlreadyAvailable = errors.New("slot already available")

	// ErrNotAvailable is returned when removing a slot that is not open.
	ErrNotAvailable = errors.New("slot not available")

	// ErrUnknownAppointment is returned when a cancellation target is missing
	// or already canceled. Canceling twice is rejected, not silently accepted.
	ErrUnknownAppointment = errors.New("appointment not found or already canceled")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SlotUnavailableError reports which technician/date/time was requested.
type SlotUnavailableError struct {
	Technician string
	Date       string
	Time       string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%s is not available at %s on %s (already booked or not scheduled)",
		e.Technician, e.Time, e.Date)
}

func (e *SlotUnavailableError) Unwrap() error { return ErrSlotUnavailable }

// SlotConflictError reports an availability-mutation conflict (duplicate add
// or absent remove).
type SlotConflictError struct {
	Technician string
	Date       string
	Time       string
	Adding     bool
}

func (e *SlotConflictError) Error() string {
	if e.Adding {
		return fmt.Sprintf("%s is already available at %s on %s", e.Technician, e.Time, e.Date)
	}
	return fmt.Sprintf("slot %s @ %s not found in %s's availability", e.Date, e.Time, e.Technician)
}

func (e *SlotConflictError) Unwrap() error {
	if e.Adding {
		return ErrAlreadyAvailable
	}
	return ErrNotAvailable
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownParty) ||
		errors.Is(err, ErrUnknownAppointment)
}

// IsConflict returns true if the error is a slot-state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, ErrAlreadyAvailable) ||
		errors.Is(err, ErrNotAvailable)
}

// IsClientError returns true if the error is due to invalid caller input or
// a recoverable conflict, as opposed to a persistence failure.
func IsClientError(err error) bool {
	return IsNotFound(err) || IsConflict(err) || errors.Is(err, ErrInvalidDate)
}
