package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/room-reservations/internal/booking"
	"github.com/example/room-reservations/internal/persistence"
)

// ReservationRepository captures the persistence interactions needed by the
// service. CreateReservation and UpdateReservation must enforce the
// no-overlap invariant atomically with the write; the service treats a
// conflict error from either as authoritative even when its own pre-check
// passed.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	ListReservations(ctx context.Context, filter ListReservationsParams) ([]Reservation, error)
	ListOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]Reservation, error)
}

// UserDirectory exposes public user field lookups.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (UserSummary, error)
}

// RoomCatalog exposes room lookups.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

// ReservationService orchestrates validation, conflict detection and
// authorization for reservation operations. It holds no mutable state and is
// safe for concurrent use.
type ReservationService struct {
	reservations ReservationRepository
	users        UserDirectory
	rooms        RoomCatalog
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService wires dependencies for reservation operations.
func NewReservationService(reservations ReservationRepository, users UserDirectory, rooms RoomCatalog, idGenerator func() string, now func() time.Time) *ReservationService {
	return NewReservationServiceWithLogger(reservations, users, rooms, idGenerator, now, nil)
}

// NewReservationServiceWithLogger wires dependencies and attaches a base
// logger used when the context carries none.
func NewReservationServiceWithLogger(reservations ReservationRepository, users UserDirectory, rooms RoomCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		users:        users,
		rooms:        rooms,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// List enumerates reservations ordered by ascending start time, each resolved
// with the owner's public fields and the room. The filter keeps only
// reservations fully contained in [From, To]; callers wanting "touching the
// range" semantics must widen the bounds themselves.
func (s *ReservationService) List(ctx context.Context, params ListReservationsParams) ([]ReservationDetail, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}

	reservations, err := s.reservations.ListReservations(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, "list", mapRepositoryError(err))
	}

	details, err := s.resolveDetails(ctx, reservations)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}
	return details, nil
}

// Create books a new reservation for the calling principal.
func (s *ReservationService) Create(ctx context.Context, params CreateReservationParams) (ReservationDetail, error) {
	if s == nil || s.reservations == nil {
		return ReservationDetail{}, fmt.Errorf("reservation repository not configured")
	}

	input := params.Input
	switch {
	case strings.TrimSpace(input.RoomID) == "":
		return ReservationDetail{}, s.fail(ctx, "create", fmt.Errorf("%w: roomId", ErrMissingField))
	case input.Start.IsZero():
		return ReservationDetail{}, s.fail(ctx, "create", fmt.Errorf("%w: startTime", ErrMissingField))
	case input.End.IsZero():
		return ReservationDetail{}, s.fail(ctx, "create", fmt.Errorf("%w: endTime", ErrMissingField))
	}

	room, err := s.rooms.GetRoom(ctx, input.RoomID)
	if err != nil {
		return ReservationDetail{}, s.fail(ctx, "create", mapRepositoryError(err))
	}

	if err := booking.ValidateInterval(input.Start, input.End, s.now()); err != nil {
		return ReservationDetail{}, s.fail(ctx, "create", mapIntervalError(err))
	}

	if err := s.ensureSlotFree(ctx, input.RoomID, input.Start, input.End, ""); err != nil {
		return ReservationDetail{}, s.fail(ctx, "create", err)
	}

	createdAt := s.now()
	reservation := Reservation{
		ID:        s.idGenerator(),
		RoomID:    input.RoomID,
		UserID:    params.Principal.UserID,
		Start:     input.Start,
		End:       input.End,
		Purpose:   input.Purpose,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	persisted, err := s.reservations.CreateReservation(ctx, reservation)
	if err != nil {
		return ReservationDetail{}, s.fail(ctx, "create", mapRepositoryError(err))
	}

	user, err := s.users.GetUser(ctx, persisted.UserID)
	if err != nil {
		return ReservationDetail{}, s.fail(ctx, "create", mapRepositoryError(err))
	}

	serviceLogger(ctx, s.logger, "reservation", "create").InfoContext(ctx,
		"reservation created", "reservation_id", persisted.ID, "room_id", persisted.RoomID)

	return ReservationDetail{Reservation: persisted, User: user, Room: room}, nil
}

// Update applies a partial patch to a reservation owned by the caller. Fields
// absent from the patch keep their stored values; an explicitly supplied
// empty purpose clears the stored purpose.
func (s *ReservationService) Update(ctx context.Context, params UpdateReservationParams) (ReservationDetail, error) {
	if s == nil || s.reservations == nil {
		return ReservationDetail{}, fmt.Errorf("reservation repository not configured")
	}

	existing, err := s.reservations.GetReservation(ctx, params.ReservationID)
	if err != nil {
		return ReservationDetail{}, s.fail(ctx, "update", mapRepositoryError(err))
	}

	if !booking.CanMutate(params.Principal.UserID, toBookingReservation(existing)) {
		return ReservationDetail{}, s.fail(ctx, "update", ErrForbidden)
	}

	patch := params.Patch
	effectiveStart := existing.Start
	if patch.Start != nil {
		effectiveStart = *patch.Start
	}
	effectiveEnd := existing.End
	if patch.End != nil {
		effectiveEnd = *patch.End
	}

	// The past-start rule applies only when the start is being moved. A
	// purpose-only or end-only edit of a reservation already underway must
	// not be rejected for starting in the past.
	if patch.Start != nil {
		err = booking.ValidateInterval(effectiveStart, effectiveEnd, s.now())
	} else {
		err = booking.ValidateRange(effectiveStart, effectiveEnd)
	}
	if err != nil {
		return ReservationDetail{}, s.fail(ctx, "update", mapIntervalError(err))
	}

	if err := s.ensureSlotFree(ctx, existing.RoomID, effectiveStart, effectiveEnd, existing.ID); err != nil {
		return ReservationDetail{}, s.fail(ctx, "update", err)
	}

	updated := existing
	updated.Start = effectiveStart
	updated.End = effectiveEnd
	if patch.Purpose.Set {
		updated.Purpose = patch.Purpose.Value
	}
	updated.UpdatedAt = s.now()

	persisted, err := s.reservations.UpdateReservation(ctx, updated)
	if err != nil {
		return ReservationDetail{}, s.fail(ctx, "update", mapRepositoryError(err))
	}

	user, err := s.users.GetUser(ctx, persisted.UserID)
	if err != nil {
		return ReservationDetail{}, s.fail(ctx, "update", mapRepositoryError(err))
	}
	room, err := s.rooms.GetRoom(ctx, persisted.RoomID)
	if err != nil {
		return ReservationDetail{}, s.fail(ctx, "update", mapRepositoryError(err))
	}

	serviceLogger(ctx, s.logger, "reservation", "update").InfoContext(ctx,
		"reservation updated", "reservation_id", persisted.ID, "room_id", persisted.RoomID)

	return ReservationDetail{Reservation: persisted, User: user, Room: room}, nil
}

// Delete removes a reservation owned by the caller. Deleting an unknown id
// reports ErrNotFound; it never succeeds silently.
func (s *ReservationService) Delete(ctx context.Context, principal Principal, reservationID string) error {
	if s == nil || s.reservations == nil {
		return fmt.Errorf("reservation repository not configured")
	}

	existing, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return s.fail(ctx, "delete", mapRepositoryError(err))
	}

	if !booking.CanMutate(principal.UserID, toBookingReservation(existing)) {
		return s.fail(ctx, "delete", ErrForbidden)
	}

	if err := s.reservations.DeleteReservation(ctx, reservationID); err != nil {
		return s.fail(ctx, "delete", mapRepositoryError(err))
	}

	serviceLogger(ctx, s.logger, "reservation", "delete").InfoContext(ctx,
		"reservation deleted", "reservation_id", reservationID)
	return nil
}

// ensureSlotFree runs the conflict detector against the store. Both create
// and update route through here before any mutation; the repositories repeat
// the check atomically at write time to close the race with concurrent
// writers.
func (s *ReservationService) ensureSlotFree(ctx context.Context, roomID string, start, end time.Time, excludeID string) error {
	overlapping, err := s.reservations.ListOverlapping(ctx, roomID, start, end, excludeID)
	if err != nil {
		return mapRepositoryError(err)
	}

	existing := make([]booking.Reservation, 0, len(overlapping))
	for _, reservation := range overlapping {
		existing = append(existing, toBookingReservation(reservation))
	}

	if conflict := booking.FindConflict(existing, roomID, start, end, excludeID); conflict != nil {
		return ErrSlotConflict
	}
	return nil
}

func (s *ReservationService) resolveDetails(ctx context.Context, reservations []Reservation) ([]ReservationDetail, error) {
	details := make([]ReservationDetail, 0, len(reservations))
	users := make(map[string]UserSummary)
	rooms := make(map[string]Room)

	for _, reservation := range reservations {
		user, ok := users[reservation.UserID]
		if !ok {
			resolved, err := s.users.GetUser(ctx, reservation.UserID)
			if err != nil {
				return nil, mapRepositoryError(err)
			}
			users[reservation.UserID] = resolved
			user = resolved
		}

		room, ok := rooms[reservation.RoomID]
		if !ok {
			resolved, err := s.rooms.GetRoom(ctx, reservation.RoomID)
			if err != nil {
				return nil, mapRepositoryError(err)
			}
			rooms[reservation.RoomID] = resolved
			room = resolved
		}

		details = append(details, ReservationDetail{Reservation: reservation, User: user, Room: room})
	}
	return details, nil
}

func (s *ReservationService) fail(ctx context.Context, operation string, err error) error {
	serviceLogger(ctx, s.logger, "reservation", operation).WarnContext(ctx,
		"operation failed", "error_kind", ErrorKind(err), "error", err)
	return err
}

func toBookingReservation(reservation Reservation) booking.Reservation {
	return booking.Reservation{
		ID:     reservation.ID,
		RoomID: reservation.RoomID,
		UserID: reservation.UserID,
		Start:  reservation.Start,
		End:    reservation.End,
	}
}

func mapIntervalError(err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		return ErrInvalidRange
	case errors.Is(err, booking.ErrPastStart):
		return ErrPastStart
	}
	return err
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConflict):
		return ErrSlotConflict
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	case errors.Is(err, persistence.ErrUnavailable):
		return ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
