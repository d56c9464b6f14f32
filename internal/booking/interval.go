package booking

import (
	"errors"
	"time"
)

var (
	// ErrInvalidRange indicates the start instant is not strictly before the end.
	ErrInvalidRange = errors.New("booking: start must be before end")
	// ErrPastStart indicates the start instant is earlier than the reference time.
	ErrPastStart = errors.New("booking: start is in the past")
)

// ValidateInterval checks that [start, end) is well-formed and does not begin
// before now. The reference time is supplied by the caller so the check stays
// deterministic.
func ValidateInterval(start, end, now time.Time) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	if start.Before(now) {
		return ErrPastStart
	}
	return nil
}

// ValidateRange checks only that [start, end) is well-formed. Used on the
// update path, where an existing reservation may legitimately start in the
// past as long as the start field itself is not being moved.
func ValidateRange(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	return nil
}
