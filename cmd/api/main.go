// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Kanade HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
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

	"github.com/taibuivan/kanade/internal/api"
	"github.com/taibuivan/kanade/internal/billing/kana"
	"github.com/taibuivan/kanade/internal/billing/mission"
	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/catalog/chapter"
	"github.com/taibuivan/kanade/internal/catalog/series"
	"github.com/taibuivan/kanade/internal/moderation/report"
	"github.com/taibuivan/kanade/internal/platform/config"
	"github.com/taibuivan/kanade/internal/platform/constants"
	"github.com/taibuivan/kanade/internal/platform/migration"
	pgstore "github.com/taibuivan/kanade/internal/platform/postgres"
	redisstore "github.com/taibuivan/kanade/internal/platform/redis"
	"github.com/taibuivan/kanade/internal/platform/sec"
	"github.com/taibuivan/kanade/internal/users/account"
	"github.com/taibuivan/kanade/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "kanade"))
	slog.SetDefault(log)

	log.Info("[Kanade] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "kanade"))
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

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Auth Service ───────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")
	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	verificationTokenRepository := auth.NewVerificationTokenRepository(rdb)
	authService := auth.NewService(userRepository, sessionRepository, resetTokenRepository, verificationTokenRepository, jwtSvc)
	authHandler := auth.NewHandler(authService)

	accountRepository := account.NewAccountRepository(pool)
	profileRepository := account.NewProfileRepository(pool)
	accountSessionRepository := account.NewSessionRepository(pool)
	ledgerRepository := wallet.NewLedgerRepository(pool)
	accountService := account.NewService(profileRepository, accountRepository, ledgerRepository, accountSessionRepository, log)
	accountHandler := account.NewHandler(accountService)

	// The mission progress store doubles as the chapter read tracker: every
	// recorded read feeds the day-scoped mission counters.
	progressStore := mission.NewProgressStore(rdb)

	chapterRepository := chapter.NewChapterRepository(pool)
	chapterService := chapter.NewService(chapterRepository, accountRepository, progressStore, log)
	chapterHandler := chapter.NewHandler(chapterService)

	seriesRepository := series.NewSeriesRepository(pool)
	seriesService := series.NewService(seriesRepository, chapterRepository, log)
	seriesHandler := series.NewHandler(seriesService)

	goldPackRepository := kana.NewGoldPackRepository(pool)
	orderRepository := kana.NewOrderRepository(pool)
	kanaService := kana.NewService(goldPackRepository, orderRepository, accountRepository, log)
	kanaHandler := kana.NewHandler(kanaService)

	missionRepository := mission.NewMissionRepository(pool)
	missionService := mission.NewService(missionRepository, progressStore, accountRepository, log)
	missionHandler := mission.NewHandler(missionService)

	reportRepository := report.NewReportRepository(pool)
	reportService := report.NewService(reportRepository, accountRepository, log)
	reportHandler := report.NewHandler(reportService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Series:    seriesHandler,
		Chapter:   chapterHandler,
		Kana:      kanaHandler,
		Mission:   missionHandler,
		Report:    reportHandler,
	}

	// The server context outlives startup; it backs the rate limiter's
	// cleanup goroutine.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

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
