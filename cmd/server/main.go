package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffdesk/identity-service/internal/api"
	"github.com/staffdesk/identity-service/internal/core/service"
	"github.com/staffdesk/identity-service/internal/infrastructure/db/mongo"
	"github.com/staffdesk/identity-service/internal/infrastructure/db/redis"
	"github.com/staffdesk/identity-service/internal/infrastructure/queue"
	"github.com/staffdesk/identity-service/internal/pkg/config"
	"github.com/staffdesk/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

//go:generate swag init -g cmd/server/main.go -o docs

// @title                      Identity Service API
// @version                    1.0
// @description                Token-based authentication service: registration, login and bearer-token resolution.
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, disconnect, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	accountRepo := mongo.NewAccountRepository(db)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account index creation failed")
	}

	auditTrail := service.NewAuditTrail(mongo.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(0, auditTrail, log)
	dispatcher.Start(ctx)

	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm, cfg.Auth.TokenTTL())
	throttle := redis.NewLoginThrottle(rdb, cfg.Auth.ThrottleMaxAttempts, cfg.Auth.ThrottleWindow())

	authService := service.NewAuthService(accountRepo, hasher, tokens, log).
		WithThrottle(throttle).
		WithAudit(dispatcher)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Accounts:    accountRepo,
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
