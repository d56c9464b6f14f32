package main

import (
	"context"
	"time"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/persistence"
)

// The adapters translate between the application's domain values and the
// persistence records. The application layer stays free of storage types and
// the repositories stay free of service semantics.

type reservationRepositoryAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationRepositoryAdapter(repo persistence.ReservationRepository) *reservationRepositoryAdapter {
	return &reservationRepositoryAdapter{repo: repo}
}

func (a *reservationRepositoryAdapter) CreateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	created, err := a.repo.CreateReservation(ctx, toPersistenceReservation(reservation))
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(created), nil
}

func (a *reservationRepositoryAdapter) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	reservation, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(reservation), nil
}

func (a *reservationRepositoryAdapter) UpdateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	updated, err := a.repo.UpdateReservation(ctx, toPersistenceReservation(reservation))
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(updated), nil
}

func (a *reservationRepositoryAdapter) DeleteReservation(ctx context.Context, id string) error {
	return a.repo.DeleteReservation(ctx, id)
}

func (a *reservationRepositoryAdapter) ListReservations(ctx context.Context, params application.ListReservationsParams) ([]application.Reservation, error) {
	reservations, err := a.repo.ListReservations(ctx, persistence.ReservationFilter{From: params.From, To: params.To})
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(reservations), nil
}

func (a *reservationRepositoryAdapter) ListOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]application.Reservation, error) {
	reservations, err := a.repo.ListOverlapping(ctx, roomID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(reservations), nil
}

type userDirectoryAdapter struct {
	repo persistence.UserRepository
}

func newUserDirectoryAdapter(repo persistence.UserRepository) *userDirectoryAdapter {
	return &userDirectoryAdapter{repo: repo}
}

func (a *userDirectoryAdapter) GetUser(ctx context.Context, id string) (application.UserSummary, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.UserSummary{}, err
	}
	return application.UserSummary{ID: user.ID, Name: user.Name, Lab: user.Lab}, nil
}

type roomCatalogAdapter struct {
	repo persistence.RoomRepository
}

func newRoomCatalogAdapter(repo persistence.RoomRepository) *roomCatalogAdapter {
	return &roomCatalogAdapter{repo: repo}
}

func (a *roomCatalogAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	room, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(room), nil
}

func (a *roomCatalogAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	rooms, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]application.Room, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toApplicationRoom(room))
	}
	return out, nil
}

func (a *roomCatalogAdapter) CreateRoom(ctx context.Context, room application.Room) error {
	return a.repo.CreateRoom(ctx, persistence.Room{
		ID:          room.ID,
		Name:        room.Name,
		Capacity:    room.Capacity,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	})
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	return persistence.Reservation{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		UserID:    reservation.UserID,
		Start:     reservation.Start,
		End:       reservation.End,
		Purpose:   reservation.Purpose,
		CreatedAt: reservation.CreatedAt,
		UpdatedAt: reservation.UpdatedAt,
	}
}

func toApplicationReservation(reservation persistence.Reservation) application.Reservation {
	return application.Reservation{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		UserID:    reservation.UserID,
		Start:     reservation.Start,
		End:       reservation.End,
		Purpose:   reservation.Purpose,
		CreatedAt: reservation.CreatedAt,
		UpdatedAt: reservation.UpdatedAt,
	}
}

func toApplicationReservations(reservations []persistence.Reservation) []application.Reservation {
	out := make([]application.Reservation, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toApplicationReservation(reservation))
	}
	return out
}

func toApplicationRoom(room persistence.Room) application.Room {
	return application.Room{
		ID:          room.ID,
		Name:        room.Name,
		Capacity:    room.Capacity,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}
