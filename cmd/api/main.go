// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the solosession HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the user registry (PostgreSQL or SQLite) and run its migrations.
//  4. Seed users listed in SEED_USERS.
//  5. Open the session store (memory or Redis).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/solosession/internal/api"
	"github.com/taibuivan/solosession/internal/platform/config"
	"github.com/taibuivan/solosession/internal/platform/constants"
	redisstore "github.com/taibuivan/solosession/internal/platform/redis"
	"github.com/taibuivan/solosession/internal/platform/sec"
	"github.com/taibuivan/solosession/internal/users/account"
	"github.com/taibuivan/solosession/internal/users/auth"
	"github.com/taibuivan/solosession/internal/users/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.String("session_backend", cfg.SessionBackend),
		slog.Duration("session_ttl", cfg.SessionTTL),
	)

	if cfg.SessionSecret == config.DevSessionSecret {
		log.Warn("session_secret_is_development_default")
	}

	// Root context for background workers (session janitor).
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. User Registry ──────────────────────────────────────────────────
	users, err := openRegistry(startupCtx, cfg, log)
	must(log, err, "open user registry")
	defer users.close()

	// ── 4. Seed Users ─────────────────────────────────────────────────────
	must(log, account.Seed(startupCtx, users.provisioner, cfg.SeedUsers, log), "seed users")

	// ── 5. Session Store ──────────────────────────────────────────────────
	var redisClient *goredis.Client
	if cfg.SessionBackend == config.BackendRedis {
		redisClient, err = redisstore.NewClient(startupCtx, cfg.RedisURL, redisstore.DefaultOptions, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := redisClient.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
	}

	storeOptions := session.Options{Backend: cfg.SessionBackend, KeyPrefix: cfg.SessionKeyPrefix}
	if redisClient != nil {
		storeOptions.Client = redisClient
	}
	store, err := session.Open(rootCtx, storeOptions, log)
	must(log, err, "open session store")
	defer func() { _ = store.Close() }()

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	signer, err := sec.NewCookieSigner(cfg.SessionSecret, constants.SessionIssuer)
	must(log, err, "initialize cookie signer")

	authHandler := auth.NewHandler(
		auth.NewIssuer(users.registry, store, cfg.SessionTTL),
		auth.NewGate(users.registry, store),
		signer,
		auth.PagesIn(cfg.PublicDir),
		auth.CookiePolicyFor(cfg.IsProduction()),
	)

	liveness, readiness := api.NewHealthHandlers([]api.DependencyCheck{
		{Name: cfg.DatabaseDriver, Check: users.ping},
		{Name: "session_" + cfg.SessionBackend, Check: store.Ping},
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
