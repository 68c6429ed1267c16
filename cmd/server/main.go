// @title           MinuteHire Auth Gateway API
// @version         1.0
// @description     Session, authentication and role routing gateway for the MinuteHire web app.
// @BasePath        /
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        mh_session
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minutehire/auth-gateway/internal/api"
	"github.com/minutehire/auth-gateway/internal/api/handler"
	"github.com/minutehire/auth-gateway/internal/api/middleware"
	"github.com/minutehire/auth-gateway/internal/core/ports"
	"github.com/minutehire/auth-gateway/internal/core/service"
	"github.com/minutehire/auth-gateway/internal/infrastructure/backend"
	"github.com/minutehire/auth-gateway/internal/infrastructure/config"
	"github.com/minutehire/auth-gateway/internal/infrastructure/db/memory"
	"github.com/minutehire/auth-gateway/internal/infrastructure/db/mongo"
	"github.com/minutehire/auth-gateway/internal/infrastructure/db/redis"
	"github.com/minutehire/auth-gateway/internal/infrastructure/phonepe"
	"github.com/minutehire/auth-gateway/pkg/logger"
)

// webhookReplayWindow bounds in-process replay keys when Redis is disabled.
const webhookReplayWindow = time.Hour

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		log := logger.Get()
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	// --- Datastores ---
	checks := map[string]handler.DependencyCheck{}

	var (
		sessions ports.SessionStore
		dedup    ports.PaymentDedup
	)
	if cfg.Session.Backend == config.SessionBackendMemory {
		sessions = memory.NewSessionStore()
		dedup = memory.NewDedupChecker(webhookReplayWindow)
		log.Warn().Msg("redis disabled: sessions and webhook replay keys are kept per process")
	} else {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connection failed")
		}
		defer rdb.Close()

		sessions = redis.NewSessionStore(rdb, cfg.Session.TTL)
		dedup = redis.NewDedupChecker(rdb)
		checks["redis"] = handler.RedisCheck(rdb)
	}
	log.Info().Str("backend", cfg.Session.Backend).Msg("session store ready")

	store, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}

	checks["mongodb"] = handler.MongoCheck(store.DB)

	orders := mongo.NewOrderRepository(store.DB)
	if err := orders.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure order indexes")
	}

	// --- Services ---
	backendClient := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.APIURL,
		Timeout: cfg.Backend.Timeout,
	}, logger.Component("backend"))

	authService := service.NewAuthService(
		backendClient,
		backendClient,
		sessions,
		service.NewOAuth(cfg.Backend.AuthURL, cfg.AppURL),
		service.DemoConfig{Enabled: cfg.Demo.Enabled, AccessKeyHash: cfg.Demo.AccessKeyHash},
		logger.Component("auth"),
	)
	dashboards := service.NewDashboardResolver(backendClient, logger.Component("dashboard"))
	contexts := service.NewProviderFactory(authService, dashboards, logger.Component("provider"))

	payments := service.NewPaymentService(
		phonepe.NewClient(phonepe.Config{
			BaseURL:    cfg.PhonePe.BaseURL,
			MerchantID: cfg.PhonePe.MerchantID,
			Secret:     cfg.PhonePe.Secret,
			SaltIndex:  cfg.PhonePe.SaltIndex,
		}),
		orders,
		dedup,
		logger.Component("payments"),
	)

	if cfg.Demo.Enabled {
		log.Warn().Bool("access_key", cfg.Demo.AccessKeyHash != "").Msg("demo login enabled")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Log:      log,
		AppURL:   cfg.AppURL,
		Cookie:   middleware.NewSessionCookie(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure),
		Sessions: sessions,
		Contexts: contexts,
		Payments: payments,
		Checks:   checks,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect error")
	}

	log.Info().Msg("server stopped")
}
