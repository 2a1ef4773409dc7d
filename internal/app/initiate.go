package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"

	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/goroutine"
	"github.com/liftlog/liftlog/internal/pkg/hash"
	"github.com/liftlog/liftlog/internal/pkg/logging"
	"github.com/liftlog/liftlog/internal/pkg/router"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/uid"
	"github.com/liftlog/liftlog/internal/pkg/validator"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initLogging() {
	logging.Init(
		a.config.GetString("app.name"),
		a.config.GetArray("logging.mask_fields"),
	)
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	a.argon2id = hash.NewArgon2id(a.config.GetString("hash.argon2id.pepper"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

// pingBackend retries a backend ping over a capped fibonacci backoff so the
// server survives a database or redis that is still coming up.
func pingBackend(ctx context.Context, attempts uint64, ping func(context.Context) error) error {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxRetries(attempts, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		return retry.RetryableError(ping(ctx))
	})
}

// initDatabase is optional: with no database.url the modules fall back to
// their in-process repositories, which keeps local development to a single
// binary.
func (a *App) initDatabase() {
	url := a.config.GetString("database.url")
	if url == "" {
		slog.Warn("database.url not set, data will not survive a restart")
		return
	}

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		slog.Error("failed to parse DB connection string", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()
	if err := pingBackend(pingCtx, 5, pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

// initSessions stores sessions in redis when redis.url is set, otherwise in
// process memory with a background sweeper.
func (a *App) initSessions() {
	sliding := a.config.GetBool("session.sliding")

	url := a.config.GetString("redis.url")
	if url == "" {
		interval := a.config.GetMinute("session.sweep_interval_minutes")
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		mem := session.NewMemory(a.hmac, a.clock, sliding)
		a.goroutine.Go(a.ctx, func(ctx context.Context) error {
			return mem.Run(ctx, interval)
		})
		a.sessions = mem
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()
	if err := pingBackend(pingCtx, 5, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.sessions = session.NewRedis(rdb, a.hmac, a.clock, sliding)
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Sessions:   a.sessions,
		CookieName: a.config.GetString("session.cookie_name"),
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn != nil {
					return a.cacheConn.Close()
				}

				return nil
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.dbConn != nil {
					a.dbConn.Close()
				}

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
