package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/liftlog/liftlog/internal/identity/entity"
	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/totp"
)

type RegisterInput struct {
	Username   string `validate:"required,username"`
	Password   string `validate:"required,password"`
	TOTPSecret string `validate:"required"`
	TOTPCode   string `validate:"required"`
}

type RegisterOutput struct {
	Username string
	Token    string
}

// Register commits a new account in two phases: the submitted first code is
// verified against the not-yet-persisted secret, and only on acceptance is
// the user written. A wrong code leaves no record behind and the secret is
// discarded; retrying requires a fresh TOTPSetup.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	// Verify possession of the secret before anything touches storage. The
	// accepted counter becomes the account's initial watermark, so the
	// enrollment code itself can never be replayed at login.
	counter, ok := s.totp.Verify(in.TOTPSecret, in.TOTPCode, s.clock.Now(), totp.NoPriorCounter)
	if !ok {
		slog.WarnContext(ctx, "registration code rejected", "username", in.Username)
		return nil, goerror.NewBusiness("Invalid one-time code", goerror.CodeUnauthorized)
	}

	hashedPassword, err := s.argon2id.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	user := entity.User{
		ID:              s.uuid.Generate(),
		Username:        in.Username,
		PasswordHash:    string(hashedPassword),
		TOTPSecret:      in.TOTPSecret,
		TOTPLastCounter: counter,
		CreatedAt:       s.clock.Now(),
	}

	err = s.repoDB.CreateUser(ctx, user)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "username already taken", "username", in.Username)
		return nil, goerror.NewBusiness("Username already taken", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.sessions.Create(ctx, session.Identity{
		UserID:   user.ID,
		Username: user.Username,
	}, s.sessionTTL())
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{
		Username: user.Username,
		Token:    token,
	}, nil
}
