// Package app wires dependencies and manages the service lifecycle.
package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/goroutine"
	"github.com/liftlog/liftlog/internal/pkg/hash"
	"github.com/liftlog/liftlog/internal/pkg/router"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/uid"
	"github.com/liftlog/liftlog/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	argon2id  hash.Hash
	uuid      uid.StringID

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	sessions  session.Manager

	// server
	router     *router.Router
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLogging()
	app.initLibraries()
	app.initDatabase()
	app.initSessions()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
