package app

import (
	"log/slog"
	"os"

	"github.com/liftlog/liftlog/internal/identity"
	"github.com/liftlog/liftlog/internal/identity/inbound"
	"github.com/liftlog/liftlog/internal/workout"
)

func (a *App) initModules() {
	if err := identity.New(identity.Dependency{
		DBConn:    a.dbConn,
		Router:    a.router,
		Config:    a.config,
		UUID:      a.uuid,
		Argon2ID:  a.argon2id,
		Sessions:  a.sessions,
		Clock:     a.clock,
		Validator: a.validator,
		Cookie: inbound.CookieConfig{
			Name:   a.config.GetString("session.cookie_name"),
			TTL:    a.config.GetHour("session.ttl_hours"),
			Secure: a.config.GetBool("session.cookie_secure"),
		},
	}); err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}

	if err := workout.New(workout.Dependency{
		DBConn:    a.dbConn,
		Router:    a.router,
		Config:    a.config,
		Clock:     a.clock,
		Validator: a.validator,
	}); err != nil {
		slog.Error("failed to init module workout", "error", err)
		os.Exit(1)
	}
}
