package main

import (
	"context"
	"fmt"

	"github.com/example/room-reservations/internal/config"
	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/persistence/postgres"
	"github.com/example/room-reservations/internal/persistence/sqlite"
)

// store is the combined repository surface both backends implement.
type store interface {
	persistence.ReservationRepository
	persistence.RoomRepository
	persistence.UserRepository

	Migrate(ctx context.Context) error
	Close() error
}

func openStore(ctx context.Context, cfg config.Config) (store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLiteDSN)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.PostgresDSN)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}
