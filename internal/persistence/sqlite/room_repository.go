package sqlite

import (
	"context"

	"github.com/example/room-reservations/internal/persistence"
)

// CreateRoom inserts a room catalog entry.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	_, err := s.pool.DB().ExecContext(ctx, `
		INSERT INTO rooms (id, name, capacity, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		room.ID,
		room.Name,
		room.Capacity,
		room.Description,
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)
	return mapError(err)
}

// GetRoom loads a room by id.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	row := s.pool.DB().QueryRowContext(ctx, `
		SELECT id, name, capacity, description, created_at, updated_at
		FROM rooms WHERE id = ?`, id)
	return scanRoom(row)
}

// ListRooms returns all rooms ordered by name.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT id, name, capacity, description, created_at, updated_at
		FROM rooms ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room. Rooms with active reservations are protected by
// the foreign key constraint.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	result, err := s.pool.DB().ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
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

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var createdAt, updatedAt string
	if err := row.Scan(&room.ID, &room.Name, &room.Capacity, &room.Description, &createdAt, &updatedAt); err != nil {
		return persistence.Room{}, mapError(err)
	}

	var err error
	if room.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}
