// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Yomira forum HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire repositories, services and HTTP handlers.
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

	"github.com/taibuivan/yomira-forum/internal/api"
	"github.com/taibuivan/yomira-forum/internal/core/category"
	"github.com/taibuivan/yomira-forum/internal/core/membership"
	"github.com/taibuivan/yomira-forum/internal/core/moderation"
	"github.com/taibuivan/yomira-forum/internal/core/permission"
	"github.com/taibuivan/yomira-forum/internal/core/post"
	"github.com/taibuivan/yomira-forum/internal/core/tag"
	"github.com/taibuivan/yomira-forum/internal/platform/config"
	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	"github.com/taibuivan/yomira-forum/internal/platform/migration"
	pgstore "github.com/taibuivan/yomira-forum/internal/platform/postgres"
	redisstore "github.com/taibuivan/yomira-forum/internal/platform/redis"
	"github.com/taibuivan/yomira-forum/internal/platform/sec"
	"github.com/taibuivan/yomira-forum/internal/platform/storage"
	"github.com/taibuivan/yomira-forum/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	level := new(slog.LevelVar)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		level.Set(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.PoolOptions{
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		StatementTimeout: constants.GlobalRequestTimeout,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Storage ─────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	blobs, err := storage.NewLocalStore(cfg.StoragePath)
	must(log, err, "initialize attachment storage")

	tx := pgstore.NewTxManager(pool)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, auth.NewSessionRepository(rdb), tokens, cfg.SessionTTL, log)

	categoryRepository := category.NewPostgresRepository(pool)
	permissionRepository := permission.NewPostgresRepository(pool)
	permissionService := permission.NewService(permissionRepository, categoryRepository, userRepository, tx, log)
	categoryService := category.NewService(categoryRepository, permissionService, tx, log)

	tagService := tag.NewService(tag.NewPostgresRepository(pool), log)
	postService := post.NewService(post.NewPostgresRepository(pool), tagService, blobs, tx, cfg.MaxUploadBytes, log)

	membershipService := membership.NewService(
		membership.NewPostgresRepository(pool), categoryRepository, postService, permissionService, tx, log,
	)
	moderationService := moderation.NewService(
		moderation.NewPostgresRepository(pool), permissionRepository, permissionService,
		categoryRepository, userRepository, tx, log,
	)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService, auth.CookieConfig{Name: cfg.SessionCookieName, Secure: cfg.IsProduction()}),
		Category:   category.NewHandler(categoryService),
		Permission: permission.NewHandler(permissionService),
		Membership: membership.NewHandler(membershipService),
		Moderation: moderation.NewHandler(moderationService),
		Post:       post.NewHandler(postService),
		Tag:        tag.NewHandler(tagService),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Identity{
		Tokens:     tokens,
		Sessions:   authService,
		CookieName: cfg.SessionCookieName,
	}, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
