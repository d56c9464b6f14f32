// Package postgres implements the persistence repositories on PostgreSQL via
// the pgx stdlib driver. The reservations table carries a GiST exclusion
// constraint over (room_id, tstzrange(start_time, end_time)), so the database
// itself rejects double-booking regardless of any application-level check.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/example/room-reservations/internal/persistence"
)

// Store implements persistence.ReservationRepository,
// persistence.RoomRepository and persistence.UserRepository.
type Store struct {
	db *sql.DB
}

// Open opens a PostgreSQL connection pool and verifies connectivity.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping tests the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mapError translates PostgreSQL failures to persistence sentinels. The
// exclusion constraint violation (23P01) is the write-time double-booking
// signal.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01": // exclusion_violation
			return fmt.Errorf("%w: %v", persistence.ErrConflict, err)
		case "23505": // unique_violation
			return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %v", persistence.ErrForeignKeyViolation, err)
		case "23514": // check_violation
			return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
		}
		if strings.HasPrefix(pgErr.Code, "08") { // connection exceptions
			return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
		}
	}
	return err
}
