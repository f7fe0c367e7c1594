package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/adapter/http/handler"
	"github.com/iho/cashflow/internal/adapter/http/middleware"
	"github.com/iho/cashflow/internal/infrastructure/auth"
	"github.com/iho/cashflow/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FlowHandler      *handler.FlowHandler
	BalanceHandler   *handler.BalanceHandler
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	PasswordHandler  *handler.PasswordHandler
	HealthHandler    *handler.HealthHandler
	TokenManager     *auth.TokenManager
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
	AllowedOrigins   []string
	AuthRateLimit    float64
	AuthRateBurst    int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints are public but rate limited per IP.
		r.Route("/auth", func(r chi.Router) {
			rateLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
			r.Use(rateLimiter.Limit)

			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/refresh", cfg.AuthHandler.Refresh)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Post("/forgot-password", cfg.PasswordHandler.Forgot)
			r.Get("/reset-password", cfg.PasswordHandler.Verify)
			r.Post("/reset-password", cfg.PasswordHandler.Reset)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg.TokenManager))
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.TokenManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			// Flows
			r.Route("/flows", func(r chi.Router) {
				r.Post("/", cfg.FlowHandler.Create)
				r.Get("/", cfg.FlowHandler.List)
				r.Get("/user/{id}", cfg.FlowHandler.ListByUser)
				r.Get("/date/{date}", cfg.FlowHandler.ListByDate)
				r.Get("/{id}", cfg.FlowHandler.Get)
				r.Put("/{id}", cfg.FlowHandler.Update)
				r.Delete("/{id}", cfg.FlowHandler.Delete)
			})

			// Balances
			r.Route("/balance", func(r chi.Router) {
				r.Get("/", cfg.BalanceHandler.Current)
				r.Get("/history", cfg.BalanceHandler.History)
			})

			// User management, admin only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/", cfg.UserHandler.List)
				r.Get("/{id}", cfg.UserHandler.Get)
				r.Put("/{id}", cfg.UserHandler.Update)
				r.Delete("/{id}", cfg.UserHandler.Delete)
			})
		})
	})

	return r
}
