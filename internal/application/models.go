package application

import "time"

// Principal identifies the authenticated user invoking a service method.
type Principal struct {
	UserID string
}

// UserSummary carries the public user fields resolved into reservation
// listings. Credential material never reaches this layer.
type UserSummary struct {
	ID   string
	Name string
	Lab  string
}

// Room represents a meeting room catalog entry.
type Room struct {
	ID          string
	Name        string
	Capacity    int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reservation represents a booked slot. The interval is half-open:
// [Start, End).
type Reservation struct {
	ID        string
	RoomID    string
	UserID    string
	Start     time.Time
	End       time.Time
	Purpose   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationDetail pairs a reservation with its resolved owner and room.
type ReservationDetail struct {
	Reservation Reservation
	User        UserSummary
	Room        Room
}

// ReservationInput captures caller provided reservation fields for creation.
type ReservationInput struct {
	RoomID  string
	Start   time.Time
	End     time.Time
	Purpose string
}

// CreateReservationParams wraps the data required to create a reservation.
type CreateReservationParams struct {
	Principal Principal
	Input     ReservationInput
}

// OptionalString distinguishes an absent string field from one explicitly set,
// including set to the empty string.
type OptionalString struct {
	Value string
	Set   bool
}

// SetString returns an OptionalString carrying the given value.
func SetString(value string) OptionalString {
	return OptionalString{Value: value, Set: true}
}

// ReservationPatch carries the fields supplied on the update path. Nil and
// unset fields are left untouched on the stored reservation.
type ReservationPatch struct {
	Start   *time.Time
	End     *time.Time
	Purpose OptionalString
}

// UpdateReservationParams wraps the data required to update a reservation.
type UpdateReservationParams struct {
	Principal     Principal
	ReservationID string
	Patch         ReservationPatch
}

// ListReservationsParams narrows reservation listings. When both bounds are
// set, only reservations fully contained in [From, To] are returned.
type ListReservationsParams struct {
	From *time.Time
	To   *time.Time
}

// RoomInput captures the fields required to create a room through the
// administrative path.
type RoomInput struct {
	Name        string
	Capacity    int
	Description string
}
