package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/example/room-reservations/internal/booking"
	"github.com/example/room-reservations/internal/persistence"
)

// fakeReservationRepo mimics the store contract, including the atomic
// conflict guard on writes.
type fakeReservationRepo struct {
	reservations map[string]Reservation
	listErr      error
	writeErr     error
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[string]Reservation)}
}

func (f *fakeReservationRepo) CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	if f.writeErr != nil {
		return Reservation{}, f.writeErr
	}
	if f.hasOverlap(reservation.RoomID, reservation.Start, reservation.End, "") {
		return Reservation{}, persistence.ErrConflict
	}
	f.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (f *fakeReservationRepo) GetReservation(ctx context.Context, id string) (Reservation, error) {
	reservation, ok := f.reservations[id]
	if !ok {
		return Reservation{}, persistence.ErrNotFound
	}
	return reservation, nil
}

func (f *fakeReservationRepo) UpdateReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	if f.writeErr != nil {
		return Reservation{}, f.writeErr
	}
	if _, ok := f.reservations[reservation.ID]; !ok {
		return Reservation{}, persistence.ErrNotFound
	}
	if f.hasOverlap(reservation.RoomID, reservation.Start, reservation.End, reservation.ID) {
		return Reservation{}, persistence.ErrConflict
	}
	f.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (f *fakeReservationRepo) DeleteReservation(ctx context.Context, id string) error {
	if _, ok := f.reservations[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(f.reservations, id)
	return nil
}

func (f *fakeReservationRepo) ListReservations(ctx context.Context, filter ListReservationsParams) ([]Reservation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Reservation, 0, len(f.reservations))
	for _, reservation := range f.reservations {
		if filter.From != nil && reservation.Start.Before(*filter.From) {
			continue
		}
		if filter.To != nil && reservation.End.After(*filter.To) {
			continue
		}
		out = append(out, reservation)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (f *fakeReservationRepo) ListOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]Reservation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Reservation
	for _, reservation := range f.reservations {
		if reservation.RoomID != roomID || reservation.ID == excludeID {
			continue
		}
		if booking.Overlaps(start, end, reservation.Start, reservation.End) {
			out = append(out, reservation)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) hasOverlap(roomID string, start, end time.Time, excludeID string) bool {
	for _, reservation := range f.reservations {
		if reservation.RoomID != roomID || reservation.ID == excludeID {
			continue
		}
		if booking.Overlaps(start, end, reservation.Start, reservation.End) {
			return true
		}
	}
	return false
}

type userDirectoryStub struct {
	users map[string]UserSummary
	err   error
}

func (u *userDirectoryStub) GetUser(ctx context.Context, id string) (UserSummary, error) {
	if u.err != nil {
		return UserSummary{}, u.err
	}
	user, ok := u.users[id]
	if !ok {
		return UserSummary{}, persistence.ErrNotFound
	}
	return user, nil
}

type roomCatalogStub struct {
	rooms map[string]Room
	err   error
}

func (r *roomCatalogStub) GetRoom(ctx context.Context, id string) (Room, error) {
	if r.err != nil {
		return Room{}, r.err
	}
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (r *roomCatalogStub) ListRooms(ctx context.Context) ([]Room, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

func at(hour, min int) time.Time {
	return time.Date(2025, time.January, 10, hour, min, 0, 0, time.UTC)
}

func newTestService(repo *fakeReservationRepo) *ReservationService {
	users := &userDirectoryStub{users: map[string]UserSummary{
		"user-1": {ID: "user-1", Name: "Kim", Lab: "Quantum Security"},
		"user-2": {ID: "user-2", Name: "Lee", Lab: "Mobile Internet Security"},
	}}
	rooms := &roomCatalogStub{rooms: map[string]Room{
		"room-1": {ID: "room-1", Name: "Shared Meeting Room", Capacity: 10},
	}}

	counter := 0
	idGenerator := func() string {
		counter++
		return fmt.Sprintf("res-%d", counter)
	}
	now := func() time.Time { return at(8, 0) }

	return NewReservationService(repo, users, rooms, idGenerator, now)
}

func TestCreateReservation(t *testing.T) {
	t.Run("succeeds and resolves owner and room", func(t *testing.T) {
		repo := newFakeReservationRepo()
		service := newTestService(repo)

		detail, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0), Purpose: "standup"},
		})
		if err != nil {
			t.Fatalf("Create() = %v, want nil", err)
		}
		if detail.Reservation.UserID != "user-1" {
			t.Fatalf("owner = %q, want user-1", detail.Reservation.UserID)
		}
		if detail.User.Lab != "Quantum Security" {
			t.Fatalf("user lab = %q, want resolved lab", detail.User.Lab)
		}
		if detail.Room.Name != "Shared Meeting Room" {
			t.Fatalf("room = %q, want resolved room", detail.Room.Name)
		}

		listed, err := service.List(context.Background(), ListReservationsParams{})
		if err != nil {
			t.Fatalf("List() = %v, want nil", err)
		}
		if len(listed) != 1 || listed[0].Reservation.ID != detail.Reservation.ID {
			t.Fatalf("List() = %+v, want the created reservation", listed)
		}
	})

	t.Run("defaults purpose to empty string", func(t *testing.T) {
		repo := newFakeReservationRepo()
		service := newTestService(repo)

		detail, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0)},
		})
		if err != nil {
			t.Fatalf("Create() = %v, want nil", err)
		}
		if detail.Reservation.Purpose != "" {
			t.Fatalf("purpose = %q, want empty", detail.Reservation.Purpose)
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		service := newTestService(newFakeReservationRepo())

		cases := []ReservationInput{
			{Start: at(9, 0), End: at(10, 0)},
			{RoomID: "room-1", End: at(10, 0)},
			{RoomID: "room-1", Start: at(9, 0)},
		}
		for _, input := range cases {
			_, err := service.Create(context.Background(), CreateReservationParams{
				Principal: Principal{UserID: "user-1"},
				Input:     input,
			})
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("Create(%+v) = %v, want ErrMissingField", input, err)
			}
		}
	})

	t.Run("rejects inverted interval", func(t *testing.T) {
		service := newTestService(newFakeReservationRepo())

		_, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(10, 0), End: at(9, 0)},
		})
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("Create() = %v, want ErrInvalidRange", err)
		}
	})

	t.Run("rejects past start", func(t *testing.T) {
		service := newTestService(newFakeReservationRepo())

		_, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(7, 0), End: at(9, 0)},
		})
		if !errors.Is(err, ErrPastStart) {
			t.Fatalf("Create() = %v, want ErrPastStart", err)
		}
	})

	t.Run("rejects unknown room", func(t *testing.T) {
		service := newTestService(newFakeReservationRepo())

		_, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-9", Start: at(9, 0), End: at(10, 0)},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Create() = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects overlapping interval", func(t *testing.T) {
		repo := newFakeReservationRepo()
		service := newTestService(repo)

		if _, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0)},
		}); err != nil {
			t.Fatalf("first Create() = %v, want nil", err)
		}

		_, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-2"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 30), End: at(9, 45)},
		})
		if !errors.Is(err, ErrSlotConflict) {
			t.Fatalf("overlapping Create() = %v, want ErrSlotConflict", err)
		}
	})

	t.Run("touching boundary does not conflict", func(t *testing.T) {
		repo := newFakeReservationRepo()
		service := newTestService(repo)

		if _, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(10, 0), End: at(11, 0)},
		}); err != nil {
			t.Fatalf("first Create() = %v, want nil", err)
		}

		if _, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-2"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(11, 0), End: at(12, 0)},
		}); err != nil {
			t.Fatalf("back-to-back Create() = %v, want nil", err)
		}
	})

	t.Run("write-time conflict from the store surfaces as slot conflict", func(t *testing.T) {
		repo := newFakeReservationRepo()
		repo.writeErr = persistence.ErrConflict
		service := newTestService(repo)

		_, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0)},
		})
		if !errors.Is(err, ErrSlotConflict) {
			t.Fatalf("Create() = %v, want ErrSlotConflict from store guard", err)
		}
	})

	t.Run("store failure surfaces as store unavailable", func(t *testing.T) {
		repo := newFakeReservationRepo()
		repo.listErr = persistence.ErrUnavailable
		service := newTestService(repo)

		_, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0)},
		})
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("Create() = %v, want ErrStoreUnavailable", err)
		}
	})
}

func TestUpdateReservation(t *testing.T) {
	seed := func(t *testing.T) (*fakeReservationRepo, *ReservationService, Reservation) {
		t.Helper()
		repo := newFakeReservationRepo()
		service := newTestService(repo)
		detail, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0), Purpose: "standup"},
		})
		if err != nil {
			t.Fatalf("seed Create() = %v", err)
		}
		return repo, service, detail.Reservation
	}

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, service, _ := seed(t)

		_, err := service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-1"},
			ReservationID: "missing",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Update() = %v, want ErrNotFound", err)
		}
	})

	t.Run("non-owner is forbidden regardless of payload", func(t *testing.T) {
		_, service, reservation := seed(t)

		start := at(13, 0)
		_, err := service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-2"},
			ReservationID: reservation.ID,
			Patch:         ReservationPatch{Start: &start},
		})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("Update() = %v, want ErrForbidden", err)
		}
	})

	t.Run("purpose-only edit of a past reservation is allowed", func(t *testing.T) {
		repo, service, reservation := seed(t)

		// Move the stored reservation into the past; purpose-only edits must
		// not trip the past-start rule.
		past := reservation
		past.Start = at(5, 0)
		past.End = at(6, 0)
		repo.reservations[reservation.ID] = past

		detail, err := service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-1"},
			ReservationID: reservation.ID,
			Patch:         ReservationPatch{Purpose: SetString("retro notes")},
		})
		if err != nil {
			t.Fatalf("Update() = %v, want nil", err)
		}
		if detail.Reservation.Purpose != "retro notes" {
			t.Fatalf("purpose = %q, want updated value", detail.Reservation.Purpose)
		}
		if !detail.Reservation.Start.Equal(at(5, 0)) {
			t.Fatalf("start = %v, want untouched", detail.Reservation.Start)
		}
	})

	t.Run("moving the start into the past is rejected", func(t *testing.T) {
		_, service, reservation := seed(t)

		start := at(6, 0)
		_, err := service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-1"},
			ReservationID: reservation.ID,
			Patch:         ReservationPatch{Start: &start},
		})
		if !errors.Is(err, ErrPastStart) {
			t.Fatalf("Update() = %v, want ErrPastStart", err)
		}
	})

	t.Run("explicit empty purpose clears, absent purpose is kept", func(t *testing.T) {
		_, service, reservation := seed(t)

		end := at(10, 30)
		detail, err := service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-1"},
			ReservationID: reservation.ID,
			Patch:         ReservationPatch{End: &end},
		})
		if err != nil {
			t.Fatalf("Update() without purpose = %v, want nil", err)
		}
		if detail.Reservation.Purpose != "standup" {
			t.Fatalf("purpose = %q, want untouched", detail.Reservation.Purpose)
		}

		detail, err = service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-1"},
			ReservationID: reservation.ID,
			Patch:         ReservationPatch{Purpose: SetString("")},
		})
		if err != nil {
			t.Fatalf("Update() clearing purpose = %v, want nil", err)
		}
		if detail.Reservation.Purpose != "" {
			t.Fatalf("purpose = %q, want cleared", detail.Reservation.Purpose)
		}
	})

	t.Run("inverted effective interval is rejected", func(t *testing.T) {
		_, service, reservation := seed(t)

		end := at(8, 30)
		_, err := service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-1"},
			ReservationID: reservation.ID,
			Patch:         ReservationPatch{End: &end},
		})
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("Update() = %v, want ErrInvalidRange", err)
		}
	})

	t.Run("own interval never conflicts with itself", func(t *testing.T) {
		_, service, reservation := seed(t)

		start := at(9, 15)
		detail, err := service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-1"},
			ReservationID: reservation.ID,
			Patch:         ReservationPatch{Start: &start},
		})
		if err != nil {
			t.Fatalf("Update() = %v, want nil", err)
		}
		if !detail.Reservation.Start.Equal(start) {
			t.Fatalf("start = %v, want %v", detail.Reservation.Start, start)
		}
	})

	t.Run("conflicting move is rejected", func(t *testing.T) {
		_, service, reservation := seed(t)

		if _, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-2"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(11, 0), End: at(12, 0)},
		}); err != nil {
			t.Fatalf("second Create() = %v", err)
		}

		start := at(11, 30)
		end := at(12, 30)
		_, err := service.Update(context.Background(), UpdateReservationParams{
			Principal:     Principal{UserID: "user-1"},
			ReservationID: reservation.ID,
			Patch:         ReservationPatch{Start: &start, End: &end},
		})
		if !errors.Is(err, ErrSlotConflict) {
			t.Fatalf("Update() = %v, want ErrSlotConflict", err)
		}
	})
}

func TestDeleteReservation(t *testing.T) {
	t.Run("owner deletes, second delete reports not found", func(t *testing.T) {
		repo := newFakeReservationRepo()
		service := newTestService(repo)

		detail, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0)},
		})
		if err != nil {
			t.Fatalf("Create() = %v", err)
		}

		if err := service.Delete(context.Background(), Principal{UserID: "user-1"}, detail.Reservation.ID); err != nil {
			t.Fatalf("Delete() = %v, want nil", err)
		}
		err = service.Delete(context.Background(), Principal{UserID: "user-1"}, detail.Reservation.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("second Delete() = %v, want ErrNotFound", err)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := newFakeReservationRepo()
		service := newTestService(repo)

		detail, err := service.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0)},
		})
		if err != nil {
			t.Fatalf("Create() = %v", err)
		}

		err = service.Delete(context.Background(), Principal{UserID: "user-2"}, detail.Reservation.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("Delete() = %v, want ErrForbidden", err)
		}
	})
}

func TestListReservations(t *testing.T) {
	t.Run("filter keeps only fully contained reservations", func(t *testing.T) {
		repo := newFakeReservationRepo()
		service := newTestService(repo)

		for _, interval := range []struct{ start, end time.Time }{
			{at(9, 0), at(10, 0)},
			{at(10, 0), at(12, 0)},
			{at(13, 0), at(14, 0)},
		} {
			if _, err := service.Create(context.Background(), CreateReservationParams{
				Principal: Principal{UserID: "user-1"},
				Input:     ReservationInput{RoomID: "room-1", Start: interval.start, End: interval.end},
			}); err != nil {
				t.Fatalf("Create() = %v", err)
			}
		}

		from := at(9, 30)
		to := at(13, 30)
		listed, err := service.List(context.Background(), ListReservationsParams{From: &from, To: &to})
		if err != nil {
			t.Fatalf("List() = %v", err)
		}
		// [10:00,12:00) is the only reservation fully inside the range; the
		// one overlapping the lower bound and the one crossing the upper
		// bound are excluded.
		if len(listed) != 1 || !listed[0].Reservation.Start.Equal(at(10, 0)) {
			t.Fatalf("List() = %+v, want only the contained reservation", listed)
		}
	})

	t.Run("results are ordered by start time", func(t *testing.T) {
		repo := newFakeReservationRepo()
		service := newTestService(repo)

		for _, interval := range []struct{ start, end time.Time }{
			{at(13, 0), at(14, 0)},
			{at(9, 0), at(10, 0)},
			{at(11, 0), at(12, 0)},
		} {
			if _, err := service.Create(context.Background(), CreateReservationParams{
				Principal: Principal{UserID: "user-1"},
				Input:     ReservationInput{RoomID: "room-1", Start: interval.start, End: interval.end},
			}); err != nil {
				t.Fatalf("Create() = %v", err)
			}
		}

		listed, err := service.List(context.Background(), ListReservationsParams{})
		if err != nil {
			t.Fatalf("List() = %v", err)
		}
		for i := 1; i < len(listed); i++ {
			if listed[i].Reservation.Start.Before(listed[i-1].Reservation.Start) {
				t.Fatalf("List() not ordered by start: %+v", listed)
			}
		}
	})
}

// TestReservationScenario walks the end-to-end sequence from the service
// contract: create, conflicting create, foreign update, delete, repeat delete.
func TestReservationScenario(t *testing.T) {
	repo := newFakeReservationRepo()
	service := newTestService(repo)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateReservationParams{
		Principal: Principal{UserID: "user-1"},
		Input:     ReservationInput{RoomID: "room-1", Start: at(9, 0), End: at(10, 0)},
	})
	if err != nil {
		t.Fatalf("U1 Create() = %v, want success", err)
	}

	_, err = service.Create(ctx, CreateReservationParams{
		Principal: Principal{UserID: "user-2"},
		Input:     ReservationInput{RoomID: "room-1", Start: at(9, 30), End: at(9, 45)},
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("U2 Create() = %v, want ErrSlotConflict", err)
	}

	start := at(15, 0)
	_, err = service.Update(ctx, UpdateReservationParams{
		Principal:     Principal{UserID: "user-2"},
		ReservationID: created.Reservation.ID,
		Patch:         ReservationPatch{Start: &start},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("U2 Update() = %v, want ErrForbidden", err)
	}

	if err := service.Delete(ctx, Principal{UserID: "user-1"}, created.Reservation.ID); err != nil {
		t.Fatalf("U1 Delete() = %v, want success", err)
	}
	err = service.Delete(ctx, Principal{UserID: "user-1"}, created.Reservation.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("repeated Delete() = %v, want ErrNotFound", err)
	}
}
