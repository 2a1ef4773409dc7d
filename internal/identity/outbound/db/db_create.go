package db

import (
	"context"

	"github.com/liftlog/liftlog/internal/identity/entity"
)

const queryCreateUser = `
INSERT INTO users (id, username, password_hash, totp_secret, totp_last_counter, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

// CreateUser inserts a committed user. Username uniqueness is enforced by
// the table's unique constraint, so two racing registrations cannot both
// succeed.
func (s *DB) CreateUser(ctx context.Context, user entity.User) error {
	_, err := s.conn.Exec(ctx, queryCreateUser,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.TOTPSecret,
		user.TOTPLastCounter,
		user.CreatedAt,
	)

	return s.mapError(err)
}
