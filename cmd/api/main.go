// Copyright (c) 2026 Concert Companion. All rights reserved.

// Command api is the entry point for the Concert Companion HTTP API server.
//
// # Startup Sequence
//
//  1. Load .env overrides (development convenience).
//  2. Initialize structured logger.
//  3. Load configuration from environment variables.
//  4. Connect to PostgreSQL (pgxpool).
//  5. Connect to Redis.
//  6. Run database migrations (idempotent).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/joho/godotenv"

	"github.com/landonnguyen77/Concert-Companion/internal/api"
	"github.com/landonnguyen77/Concert-Companion/internal/artists"
	"github.com/landonnguyen77/Concert-Companion/internal/concerts"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/config"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/constants"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/migration"
	pgstore "github.com/landonnguyen77/Concert-Companion/internal/platform/postgres"
	redisstore "github.com/landonnguyen77/Concert-Companion/internal/platform/redis"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/sec"
	"github.com/landonnguyen77/Concert-Companion/internal/spotify"
	"github.com/landonnguyen77/Concert-Companion/internal/users"
)

func main() {
	// ── 1. Environment ────────────────────────────────────────────────────
	// A local .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	// ── 2. Logger ─────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 3. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application context, cancelled on shutdown. Background workers such as
	// the rate limiter janitor hang off this.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 4. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Session Tokens ─────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := users.NewPostgresRepository(pool)
	artistRepository := artists.NewPostgresRepository(pool)

	spotifyClient := spotify.NewClient(cfg, log)
	authLatch := spotify.NewRedisLatch(rdb)
	spotifyService := spotify.NewService(spotifyClient, userRepository, artistRepository, authLatch, jwtSvc, log)
	spotifyHandler := spotify.NewHandler(spotifyService)

	userService := users.NewService(userRepository, artistRepository, log)
	userHandler := users.NewHandler(userService)

	ticketmasterClient := concerts.NewTicketmasterClient(cfg.TicketmasterAPIKey, log)
	concertService := concerts.NewService(userRepository, artistRepository, ticketmasterClient, log)
	concertHandler := concerts.NewHandler(concertService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Spotify:   spotifyHandler,
		Users:     userHandler,
		Concerts:  concertHandler,
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
