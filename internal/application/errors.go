package application

import "errors"

var (
	// ErrMissingField is returned when a required field is absent from the input.
	ErrMissingField = errors.New("application: missing required field")
	// ErrInvalidRange is returned when a reservation interval is not well-formed.
	ErrInvalidRange = errors.New("application: start must be before end")
	// ErrPastStart is returned when a new reservation would begin in the past.
	ErrPastStart = errors.New("application: start is in the past")
	// ErrSlotConflict is returned when the requested interval overlaps an
	// existing reservation on the same room. It carries no details about the
	// colliding reservation.
	ErrSlotConflict = errors.New("application: slot already reserved")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrForbidden is returned when the caller does not own the reservation
	// being mutated.
	ErrForbidden = errors.New("application: forbidden")
	// ErrUnauthenticated is returned when no caller identity is available.
	// The transport layer checks this before the services are invoked.
	ErrUnauthenticated = errors.New("application: unauthenticated")
	// ErrStoreUnavailable is returned when the underlying store fails. The
	// services perform no retries; retry policy belongs to the store or the
	// transport.
	ErrStoreUnavailable = errors.New("application: store unavailable")
)
