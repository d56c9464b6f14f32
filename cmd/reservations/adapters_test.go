package main

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/config"
	"github.com/example/room-reservations/internal/persistence"
)

func openSeededStore(t *testing.T) store {
	t.Helper()

	cfg := config.Config{
		DBDriver:  config.DriverSQLite,
		SQLiteDSN: "file:" + filepath.Join(t.TempDir(), "reservations.db"),
	}

	storage, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, storage.Migrate(context.Background()))

	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, storage.CreateRoom(context.Background(), persistence.Room{
		ID: "room-1", Name: "Shared Meeting Room", Capacity: 8, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, storage.CreateUser(context.Background(), persistence.User{
		ID: "user-1", Name: "Kim", Lab: "Quantum Security", CreatedAt: now, UpdatedAt: now,
	}))
	return storage
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), config.Config{DBDriver: "oracle"})
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestAdaptersRoundTripThroughService(t *testing.T) {
	storage := openSeededStore(t)
	ctx := context.Background()

	clock := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	ids := 0
	service := application.NewReservationService(
		newReservationRepositoryAdapter(storage),
		newUserDirectoryAdapter(storage),
		newRoomCatalogAdapter(storage),
		func() string { ids++; return fmt.Sprintf("res-%d", ids) },
		func() time.Time { return clock },
	)

	created, err := service.Create(ctx, application.CreateReservationParams{
		Principal: application.Principal{UserID: "user-1"},
		Input: application.ReservationInput{
			RoomID:  "room-1",
			Start:   clock.Add(time.Hour),
			End:     clock.Add(2 * time.Hour),
			Purpose: "Design review",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Kim", created.User.Name)
	require.Equal(t, "Shared Meeting Room", created.Room.Name)

	_, err = service.Create(ctx, application.CreateReservationParams{
		Principal: application.Principal{UserID: "user-1"},
		Input: application.ReservationInput{
			RoomID: "room-1",
			Start:  clock.Add(90 * time.Minute),
			End:    clock.Add(3 * time.Hour),
		},
	})
	require.ErrorIs(t, err, application.ErrSlotConflict)

	listed, err := service.List(ctx, application.ListReservationsParams{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, created.Reservation.ID, listed[0].Reservation.ID)
}
