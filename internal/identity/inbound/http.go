package inbound

import (
	"context"
	"time"

	"github.com/liftlog/liftlog/internal/identity/usecase"
	"github.com/liftlog/liftlog/internal/pkg/router"
)

type uc interface {
	TOTPSetup(ctx context.Context, in usecase.TOTPSetupInput) (*usecase.TOTPSetupOutput, error)
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error
	Me(ctx context.Context) (*usecase.MeOutput, error)
}

// CookieConfig describes how session cookies are delivered to the browser.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, cookie CookieConfig) {
	end := &HTTPEndpoint{uc: uc, cookie: cookie}

	// Enrollment & Authentication
	r.GET("/api/auth/totp/setup", end.TOTPSetup)
	r.POST("/api/auth/register", end.Register)
	r.POST("/api/auth/login", end.Login)
	r.POST("/api/auth/logout", end.Logout)

	// Session introspection (need authenticated)
	r.GET("/api/auth/me", end.Me)
}
