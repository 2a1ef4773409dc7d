package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/pkg/session"
)

type MeOutput struct {
	Username  string
	CreatedAt time.Time
}

// Me returns the account behind the validated session. The user is re-read
// from storage so a session outliving its account does not answer.
func (s *Usecase) Me(ctx context.Context) (*MeOutput, error) {
	identity, ok := session.GetAuth(ctx)
	if !ok {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserByID(ctx, identity.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "session references missing user", "user_id", identity.UserID)
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", identity.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &MeOutput{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}
