package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/room-reservations/internal/persistence"
)

const reservationColumns = `id, room_id, user_id, start_time, end_time, purpose, created_at, updated_at`

// CreateReservation inserts a reservation after re-checking, inside the same
// write transaction, that no stored reservation on the room overlaps the
// half-open interval. Touching endpoints do not collide.
func (s *Store) CreateReservation(ctx context.Context, reservation persistence.Reservation) (persistence.Reservation, error) {
	stored := reservation
	err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := ensureSlotFreeTx(tx, reservation.RoomID, reservation.Start, reservation.End, ""); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO reservations (id, room_id, user_id, start_time, end_time, purpose, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			reservation.ID,
			reservation.RoomID,
			reservation.UserID,
			formatTime(reservation.Start),
			formatTime(reservation.End),
			reservation.Purpose,
			formatTime(reservation.CreatedAt),
			formatTime(reservation.UpdatedAt),
		)
		return mapError(err)
	})
	if err != nil {
		return persistence.Reservation{}, err
	}
	return normalizeReservation(stored), nil
}

// GetReservation loads a single reservation by id.
func (s *Store) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	row := s.pool.DB().QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	return scanReservation(row)
}

// UpdateReservation rewrites the mutable fields of a reservation, re-checking
// the overlap invariant against all other reservations on the room inside the
// write transaction. The owner column is never touched.
func (s *Store) UpdateReservation(ctx context.Context, reservation persistence.Reservation) (persistence.Reservation, error) {
	stored := reservation
	err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var ownerID string
		if err := tx.QueryRow(`SELECT user_id FROM reservations WHERE id = ?`, reservation.ID).Scan(&ownerID); err != nil {
			return mapError(err)
		}
		stored.UserID = ownerID

		if err := ensureSlotFreeTx(tx, reservation.RoomID, reservation.Start, reservation.End, reservation.ID); err != nil {
			return err
		}

		result, err := tx.Exec(`
			UPDATE reservations
			SET start_time = ?, end_time = ?, purpose = ?, updated_at = ?
			WHERE id = ?`,
			formatTime(reservation.Start),
			formatTime(reservation.End),
			reservation.Purpose,
			formatTime(reservation.UpdatedAt),
			reservation.ID,
		)
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
	})
	if err != nil {
		return persistence.Reservation{}, err
	}
	return normalizeReservation(stored), nil
}

// DeleteReservation removes a reservation, reporting ErrNotFound for unknown ids.
func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	result, err := s.pool.DB().ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
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
		query += ` WHERE start_time >= ? AND end_time <= ?`
		args = append(args, formatTime(*filter.From), formatTime(*filter.To))
	}
	query += ` ORDER BY start_time ASC, id ASC`

	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
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
		WHERE room_id = ? AND start_time < ? AND ? < end_time`
	args := []any{roomID, formatTime(end), formatTime(start)}
	if excludeID != "" {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}
	query += ` ORDER BY start_time ASC, id ASC`

	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func ensureSlotFreeTx(tx *sql.Tx, roomID string, start, end time.Time, excludeID string) error {
	query := `SELECT id FROM reservations WHERE room_id = ? AND start_time < ? AND ? < end_time`
	args := []any{roomID, formatTime(end), formatTime(start)}
	if excludeID != "" {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}
	query += ` LIMIT 1`

	var conflictingID string
	err := tx.QueryRow(query, args...).Scan(&conflictingID)
	if err == nil {
		return persistence.ErrConflict
	}
	if err == sql.ErrNoRows {
		return nil
	}
	return mapError(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var start, end, createdAt, updatedAt string
	if err := row.Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.UserID,
		&start,
		&end,
		&reservation.Purpose,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Reservation{}, mapError(err)
	}

	var err error
	if reservation.Start, err = parseTime(start); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.End, err = parseTime(end); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Reservation{}, err
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

// normalizeReservation mirrors the storage representation, which truncates
// instants to whole seconds in UTC.
func normalizeReservation(reservation persistence.Reservation) persistence.Reservation {
	reservation.Start = reservation.Start.UTC().Truncate(time.Second)
	reservation.End = reservation.End.UTC().Truncate(time.Second)
	reservation.CreatedAt = reservation.CreatedAt.UTC().Truncate(time.Second)
	reservation.UpdatedAt = reservation.UpdatedAt.UTC().Truncate(time.Second)
	return reservation
}
