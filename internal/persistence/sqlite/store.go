// Package sqlite implements the persistence repositories on an embedded
// SQLite database. Reservation writes re-run the overlap check inside the
// write transaction, so the no-double-booking invariant holds even when the
// application-level pre-check races a concurrent writer.
package sqlite

import (
	"time"
)

// Store implements persistence.ReservationRepository,
// persistence.RoomRepository and persistence.UserRepository.
type Store struct {
	pool *ConnectionPool
}

// Open opens the SQLite database behind dsn.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Times are stored as RFC3339 UTC strings truncated to whole seconds; with a
// fixed width, lexicographic comparison in SQL matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
