package postgres

import (
	"context"

	"github.com/example/room-reservations/internal/persistence"
)

// CreateRoom inserts a room catalog entry.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, capacity, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		room.ID, room.Name, room.Capacity, room.Description, room.CreatedAt, room.UpdatedAt,
	)
	return mapError(err)
}

// GetRoom loads a room by id.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	var room persistence.Room
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, capacity, description, created_at, updated_at
		FROM rooms WHERE id = $1`, id)
	if err := row.Scan(&room.ID, &room.Name, &room.Capacity, &room.Description, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return persistence.Room{}, mapError(err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, capacity, description, created_at, updated_at
		FROM rooms ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		var room persistence.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &room.Description, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, mapError(err)
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
	result, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
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
