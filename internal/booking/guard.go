package booking

// CanMutate reports whether the caller may modify or cancel the reservation.
// Only the recorded owner qualifies; there is no administrative override.
func CanMutate(callerID string, reservation Reservation) bool {
	return callerID != "" && callerID == reservation.UserID
}
