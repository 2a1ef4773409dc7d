// Package identity wires the authentication module: TOTP enrollment,
// two-phase registration, login, logout, and session introspection.
package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liftlog/liftlog/internal/identity/inbound"
	"github.com/liftlog/liftlog/internal/identity/outbound/db"
	"github.com/liftlog/liftlog/internal/identity/outbound/memory"
	"github.com/liftlog/liftlog/internal/identity/usecase"
	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/hash"
	"github.com/liftlog/liftlog/internal/pkg/router"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/totp"
	"github.com/liftlog/liftlog/internal/pkg/uid"
	"github.com/liftlog/liftlog/internal/pkg/validator"
)

type Dependency struct {
	// DBConn may be nil, in which case users live in process memory.
	DBConn    *pgxpool.Pool
	Router    *router.Router      `validate:"required"`
	Config    config.Config       `validate:"required"`
	UUID      uid.StringID        `validate:"required"`
	Argon2ID  hash.Hash           `validate:"required"`
	Sessions  session.Manager     `validate:"required"`
	Clock     clock.Clocker       `validate:"required"`
	Validator validator.Validator `validate:"required"`
	Cookie    inbound.CookieConfig
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	issuer := dep.Config.GetString("mfa.totp.issuer")
	period := dep.Config.GetInt("mfa.totp.period")
	digits := dep.Config.GetInt("mfa.totp.digits")
	windowSteps := dep.Config.GetInt("mfa.totp.window_steps")

	ucDep := usecase.Dependency{
		Validator: dep.Validator,
		Config:    dep.Config,
		Argon2ID:  dep.Argon2ID,
		UUID:      dep.UUID,
		TOTPGen:   totp.NewKeyGenerator(issuer, uint(period), digits),
		TOTP:      totp.NewVerifier(period, digits, windowSteps),
		Sessions:  dep.Sessions,
		Clock:     dep.Clock,
	}
	if dep.DBConn != nil {
		ucDep.RepoDB = db.NewDB(dep.DBConn)
	} else {
		ucDep.RepoDB = memory.NewMemory()
	}

	inbound.RegisterHTTPEndpoint(dep.Router, usecase.New(ucDep), dep.Cookie)

	return nil
}
