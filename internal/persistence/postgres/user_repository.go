package postgres

import (
	"context"

	"github.com/example/room-reservations/internal/persistence"
)

// CreateUser mirrors a user's public fields from the identity provider.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, lab, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Lab, user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err)
}

// GetUser loads a user's public fields by id.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	var user persistence.User
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, lab, created_at, updated_at
		FROM users WHERE id = $1`, id)
	if err := row.Scan(&user.ID, &user.Name, &user.Lab, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return persistence.User{}, mapError(err)
	}
	return user, nil
}

// ListUsers returns all mirrored users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, lab, created_at, updated_at
		FROM users ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		var user persistence.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Lab, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}
