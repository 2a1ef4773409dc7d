package usecase

import (
	"context"
	"time"

	"github.com/liftlog/liftlog/internal/identity/entity"
	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/hash"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/totp"
	"github.com/liftlog/liftlog/internal/pkg/uid"
	"github.com/liftlog/liftlog/internal/pkg/validator"
)

// msgInvalidCredentials is the single rejection message for login. Password
// mismatch, unknown username, bad code, and replay are indistinguishable so
// a caller cannot learn which factor failed.
const msgInvalidCredentials = "Invalid username, password, or code"

type repoDB interface {
	// CreateUser inserts a fully committed user. It returns
	// goerror.ErrConflict when the username is already taken; uniqueness is
	// enforced by the storage layer, not by a prior read.
	CreateUser(ctx context.Context, user entity.User) error
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	// UpdateLastCounter advances the accepted-counter watermark with a
	// compare-and-set on oldCounter. It reports false when another request
	// advanced the counter first.
	UpdateLastCounter(ctx context.Context, userID string, oldCounter, newCounter int64) (bool, error)
}

type totpVerifier interface {
	GenerateCode(secret string, at time.Time) (string, error)
	Verify(secret, code string, at time.Time, lastCounter int64) (int64, bool)
}

// Usecase implements the authentication workflows.
type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	argon2id  hash.Hash
	uuid      uid.StringID
	totpGen   totp.Generator
	totp      totpVerifier
	sessions  session.Manager
	clock     clock.Clocker
}

// Dependency lists what Usecase needs to be constructed.
type Dependency struct {
	RepoDB    repoDB
	Validator validator.Validator
	Config    config.Config
	Argon2ID  hash.Hash
	UUID      uid.StringID
	TOTPGen   totp.Generator
	TOTP      totpVerifier
	Sessions  session.Manager
	Clock     clock.Clocker
}

// New constructs a Usecase.
func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		argon2id:  dep.Argon2ID,
		uuid:      dep.UUID,
		totpGen:   dep.TOTPGen,
		totp:      dep.TOTP,
		sessions:  dep.Sessions,
		clock:     dep.Clock,
	}
}

func (s *Usecase) sessionTTL() time.Duration {
	ttl := s.cfg.GetHour("session.ttl_hours")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return ttl
}
