package scheduling

import "errors"

var (
	// ErrValidation covers malformed input: inverted time windows, missing
	// review reasons, chosen times off the slot grid or in the past.
	ErrValidation = errors.New("validation failed")

	// ErrSlotUnavailable means the shift is not bookable right now: not
	// accepted, already booked, or lost to a concurrent reservation.
	ErrSlotUnavailable = errors.New("slot unavailable")

	ErrInvalidTransition = errors.New("invalid status transition")

	ErrNotOwner = errors.New("acting party does not own this resource")

	// ErrHoldExpired is returned when a pending appointment is confirmed
	// past its hold window. The caller should rebook.
	ErrHoldExpired = errors.New("reservation hold has expired")
)
