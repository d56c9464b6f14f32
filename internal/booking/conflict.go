package booking

import "time"

// Reservation carries the fields the conflict detector needs. Intervals are
// half-open: [Start, End).
type Reservation struct {
	ID     string
	RoomID string
	UserID string
	Start  time.Time
	End    time.Time
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not count as overlap, so
// back-to-back bookings never conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindConflict returns the first reservation among existing whose interval
// overlaps [start, end) on the given room, or nil when the slot is free. A
// reservation with excludeID is never reported, which lets the update path
// skip the record being edited.
func FindConflict(existing []Reservation, roomID string, start, end time.Time, excludeID string) *Reservation {
	for i := range existing {
		candidate := &existing[i]
		if candidate.RoomID != roomID {
			continue
		}
		if excludeID != "" && candidate.ID == excludeID {
			continue
		}
		if Overlaps(start, end, candidate.Start, candidate.End) {
			return candidate
		}
	}
	return nil
}
