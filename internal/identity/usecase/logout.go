package usecase

import (
	"context"
	"log/slog"
)

type LogoutInput struct {
	Token string
}

// Logout revokes the session token. It always succeeds from the caller's
// perspective; a missing, unknown, or already revoked token is a no-op.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	if in.Token == "" {
		return nil
	}

	if err := s.sessions.Revoke(ctx, in.Token); err != nil {
		slog.ErrorContext(ctx, "failed to revoke session", "error", err)
	}

	return nil
}
