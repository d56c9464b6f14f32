package persistence

import "time"

// User represents a lab member account visible to the reservation core. The
// external identity provider owns credential material; only the public fields
// are mirrored here.
type User struct {
	ID        string
	Name      string
	Lab       string
	CreatedAt time.Time
	UpdatedAt time.Time
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

// Reservation represents a booked time slot stored in persistence. Intervals
// are half-open: [Start, End).
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
