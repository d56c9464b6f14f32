package sqlite

import (
	"context"

	"github.com/example/room-reservations/internal/persistence"
)

// CreateUser mirrors a user's public fields from the identity provider.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	_, err := s.pool.DB().ExecContext(ctx, `
		INSERT INTO users (id, name, lab, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Lab,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	return mapError(err)
}

// GetUser loads a user's public fields by id.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	row := s.pool.DB().QueryRowContext(ctx, `
		SELECT id, name, lab, created_at, updated_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// ListUsers returns all mirrored users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT id, name, lab, created_at, updated_at
		FROM users ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var createdAt, updatedAt string
	if err := row.Scan(&user.ID, &user.Name, &user.Lab, &createdAt, &updatedAt); err != nil {
		return persistence.User{}, mapError(err)
	}

	var err error
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}
