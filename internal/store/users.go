package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a new account. The username must be unique; a taken
// name comes back as [ErrDuplicate].
func (s *Store) CreateUser(ctx context.Context, username string, email *string, passwordHash string) (*User, error) {
	const query = `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id`

	user := &User{Username: username, Email: email, PasswordHash: passwordHash}
	err := s.db.QueryRow(ctx, query, username, email, passwordHash).Scan(&user.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("store: user %q: %w", username, ErrDuplicate)
		}
		return nil, fmt.Errorf("store: create user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves an account by id.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*User, error) {
	const query = `SELECT id, username, email, password FROM users WHERE id = $1`

	var user User
	err := s.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("store: user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves an account by username, for login.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	const query = `SELECT id, username, email, password FROM users WHERE username = $1`

	var user User
	err := s.db.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("store: user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get user: %w", err)
	}
	return &user, nil
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	const query = `UPDATE users SET password = $2 WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("store: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store: user %d: %w", userID, ErrNotFound)
	}
	return nil
}
