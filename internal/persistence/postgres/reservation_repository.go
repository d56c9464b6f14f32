package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/room-reservations/internal/persistence"
)

const reservationColumns = `id, room_id, user_id, start_time, end_time, purpose, created_at, updated_at`

// CreateReservation inserts a reservation. The exclusion constraint rejects
// overlapping intervals on the same room atomically with the insert, so no
// explicit pre-check transaction is needed here.
func (s *Store) CreateReservation(ctx context.Context, reservation persistence.Reservation) (persistence.Reservation, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reservations (id, room_id, user_id, start_time, end_time, purpose, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		reservation.ID,
		reservation.RoomID,
		reservation.UserID,
		reservation.Start,
		reservation.End,
		reservation.Purpose,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	return reservation, nil
}

// GetReservation loads a single reservation by id.
func (s *Store) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	return scanReservation(row)
}

// UpdateReservation rewrites the mutable fields of a reservation. The owner
// column is never touched; the exclusion constraint guards the moved interval.
func (s *Store) UpdateReservation(ctx context.Context, reservation persistence.Reservation) (persistence.Reservation, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE reservations
		SET start_time = $1, end_time = $2, purpose = $3, updated_at = $4
		WHERE id = $5
		RETURNING `+reservationColumns,
		reservation.Start,
		reservation.End,
		reservation.Purpose,
		reservation.UpdatedAt,
		reservation.ID,
	)
	return scanReservation(row)
}

// DeleteReservation removes a reservation, reporting ErrNotFound for unknown ids.
func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListReservations returns reservations ordered by ascending start time. When
// both filter bounds are set, only reservations fully contained in the range
// are returned.
func (s *Store) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	args := make([]any, 0, 2)
	if filter.From != nil && filter.To != nil {
		query += ` WHERE start_time >= $1 AND end_time <= $2`
		args = append(args, *filter.From, *filter.To)
	}
	query += ` ORDER BY start_time ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// ListOverlapping returns reservations on the room whose intervals intersect
// [start, end), optionally skipping one reservation id.
func (s *Store) ListOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]persistence.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE room_id = $1 AND start_time < $2 AND $3 < end_time`
	args := []any{roomID, end, start}
	if excludeID != "" {
		query += ` AND id != $4`
		args = append(args, excludeID)
	}
	query += ` ORDER BY start_time ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	if err := row.Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.UserID,
		&reservation.Start,
		&reservation.End,
		&reservation.Purpose,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	); err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	return reservation, nil
}

func collectReservations(rows *sql.Rows) ([]persistence.Reservation, error) {
	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reservations, nil
}
