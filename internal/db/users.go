package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// User Methods (admin seeding)
// -----------------------------------------------------------------------------

// GetUserByEmail retrieves a user by email. Returns nil when no such user
// exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, is_admin, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", email, err)
	}
	return &u, nil
}

// CreateAdminUser inserts an administrator account with a pre-hashed
// password.
func (db *DB) CreateAdminUser(ctx context.Context, email, passwordHash string) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, is_admin)
		 VALUES ($1, $2, TRUE)
		 RETURNING id, email, password_hash, is_admin, created_at`,
		email, passwordHash,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user %s: %w", email, err)
	}
	return &u, nil
}
