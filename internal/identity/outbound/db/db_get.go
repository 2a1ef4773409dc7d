package db

import (
	"context"

	"github.com/liftlog/liftlog/internal/identity/entity"
)

const queryGetUserByUsername = `
SELECT id, username, password_hash, totp_secret, totp_last_counter, created_at
FROM users
WHERE username = $1
`

func (s *DB) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := s.conn.QueryRow(ctx, queryGetUserByUsername, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.TOTPSecret,
		&user.TOTPLastCounter,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

const queryGetUserByID = `
SELECT id, username, password_hash, totp_secret, totp_last_counter, created_at
FROM users
WHERE id = $1
`

func (s *DB) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := s.conn.QueryRow(ctx, queryGetUserByID, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.TOTPSecret,
		&user.TOTPLastCounter,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}
