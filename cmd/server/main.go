package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/cashflow/internal/adapter/http"
	"github.com/iho/cashflow/internal/adapter/http/handler"
	postgresRepo "github.com/iho/cashflow/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashflow/internal/adapter/repository/redis"
	"github.com/iho/cashflow/internal/infrastructure/auth"
	"github.com/iho/cashflow/internal/infrastructure/config"
	"github.com/iho/cashflow/internal/infrastructure/email"
	"github.com/iho/cashflow/internal/infrastructure/logger"
	"github.com/iho/cashflow/internal/infrastructure/metrics"
	"github.com/iho/cashflow/internal/infrastructure/postgres"
	"github.com/iho/cashflow/internal/infrastructure/redis"
	"github.com/iho/cashflow/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	flowRepo := postgresRepo.NewFlowRepository(pool)
	snapshotRepo := postgresRepo.NewSnapshotRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	tokenStore := redisRepo.NewTokenStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize infrastructure services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	mailer := email.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SenderEmail, cfg.SenderName)

	// Initialize use cases
	appMetrics := metrics.New()
	flowUC := usecase.NewFlowUseCase(txManager, flowRepo, snapshotRepo, idGen, retrier, appMetrics)
	balanceUC := usecase.NewBalanceUseCase(snapshotRepo)
	userUC := usecase.NewUserUseCase(userRepo, idGen, appMetrics)
	passwordUC := usecase.NewPasswordResetUseCase(userRepo, mailer, cfg.ResetBaseURL, appMetrics)

	// Initialize handlers
	secureCookies := strings.HasPrefix(cfg.ResetBaseURL, "https://")
	flowHandler := handler.NewFlowHandler(flowUC)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	authHandler := handler.NewAuthHandler(userUC, tokenManager, tokenStore, cfg.RefreshTokenTTL, secureCookies)
	userHandler := handler.NewUserHandler(userUC)
	passwordHandler := handler.NewPasswordHandler(passwordUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FlowHandler:      flowHandler,
		BalanceHandler:   balanceHandler,
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		PasswordHandler:  passwordHandler,
		HealthHandler:    healthHandler,
		TokenManager:     tokenManager,
		IdempotencyStore: idempotencyStore,
		Logger:           appLogger,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AuthRateLimit:    cfg.AuthRateLimit,
		AuthRateBurst:    cfg.AuthRateBurst,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
