package persistence

import (
	"context"
	"time"
)

// ReservationFilter narrows reservation listings. Both bounds must be set for
// the filter to apply; matching reservations are fully contained in the
// range, i.e. Start >= From and End <= To.
type ReservationFilter struct {
	From *time.Time
	To   *time.Time
}

// ReservationRepository stores reservation records.
//
// CreateReservation and UpdateReservation must reject interval collisions on
// the same room atomically with the write itself, returning ErrConflict. The
// application layer runs its own pre-check for precise error reporting, but
// correctness under concurrent writers rests on the repository.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	ListOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]Reservation, error)
}

// RoomRepository exposes CRUD operations for rooms. Rooms are created and
// deleted by the administrative path only; the reservation core reads them.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// UserRepository exposes lookups for the public user fields mirrored from the
// external identity provider.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}
