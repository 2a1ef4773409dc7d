package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/pkg/session"
)

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	TOTP     string `validate:"required"`
}

type LoginOutput struct {
	Username string
	Token    string
}

// Login requires both a password match and a fresh one-time code. Any
// failure, including a code that lost the counter race to a concurrent
// login, is surfaced as the same generic rejection.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "username", in.Username)
		return nil, goerror.NewBusiness(msgInvalidCredentials, goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by username", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.argon2id.Verify(user.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, goerror.NewBusiness(msgInvalidCredentials, goerror.CodeUnauthorized)
	}

	counter, ok := s.totp.Verify(user.TOTPSecret, in.TOTP, s.clock.Now(), user.TOTPLastCounter)
	if !ok {
		slog.WarnContext(ctx, "one-time code rejected", "user_id", user.ID)
		return nil, goerror.NewBusiness(msgInvalidCredentials, goerror.CodeUnauthorized)
	}

	// The compare-and-set consumes the code; when two requests race with the
	// same code, exactly one advances the counter and the loser is rejected
	// as a replay. The loser is not retried.
	advanced, err := s.repoDB.UpdateLastCounter(ctx, user.ID, user.TOTPLastCounter, counter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update last counter", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !advanced {
		slog.WarnContext(ctx, "one-time code consumed concurrently", "user_id", user.ID)
		return nil, goerror.NewBusiness(msgInvalidCredentials, goerror.CodeUnauthorized)
	}

	token, err := s.sessions.Create(ctx, session.Identity{
		UserID:   user.ID,
		Username: user.Username,
	}, s.sessionTTL())
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		Username: user.Username,
		Token:    token,
	}, nil
}
