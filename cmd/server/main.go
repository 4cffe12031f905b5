// Package main CSE Motors dealership site
//
// @title        CSE Motors API
// @version      1.0
// @description  JSON endpoints and health checks of the CSE Motors dealership site.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api"
	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/ports"
	"github.com/csemotors/dealership/internal/core/service"
	"github.com/csemotors/dealership/internal/infrastructure/config"
	"github.com/csemotors/dealership/internal/infrastructure/db/postgres"
	redisdb "github.com/csemotors/dealership/internal/infrastructure/db/redis"
	"github.com/csemotors/dealership/internal/pkg/token"
	"github.com/csemotors/dealership/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Development(),
		App:    "dealership",
	})
	log.Info().Str("env", cfg.Env).Str("session_backend", cfg.Session.Backend).Msg("starting dealership")

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("dealership stopped with error")
	}
	log.Info().Msg("dealership stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:      cfg.Postgres.URL,
		MaxConns: cfg.Postgres.MaxConns,
		TraceSQL: cfg.Development(),
	}, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Postgres.Migrations {
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	var (
		sessions ports.SessionRepository
		rdb      *goredis.Client
	)
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = redisdb.NewSessionRepository(rdb)
	default:
		pgSessions, err := postgres.NewSessionRepository(ctx, db)
		if err != nil {
			return err
		}
		sessions = pgSessions
	}

	accountRepo := postgres.NewAccountRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	tokens := token.NewManager(cfg.Auth.AccessTokenSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(accountRepo, sessions, tokens, cfg.Session.TTL, log)
	accountService := service.NewAccountService(accountRepo, log)
	inventoryService := service.NewInventoryService(inventoryRepo, log)
	commentService := service.NewCommentService(commentRepo, log)

	jar := web.NewJar([]byte(cfg.Session.Secret), cfg.Session.TTL, tokens.TTL(), !cfg.Development())

	e, err := api.NewRouter(api.Deps{
		Log:       log,
		Auth:      authService,
		Accounts:  accountService,
		Inventory: inventoryService,
		Comments:  commentService,
		Jar:       jar,
		StaticDir: cfg.StaticDir,
		DB:        db,
		Redis:     rdb,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
