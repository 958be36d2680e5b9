package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler      *handler.WalletHandler
	TransactionHandler *handler.TransactionHandler
	TransferHandler    *handler.TransferHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	Logger             zerolog.Logger
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

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", cfg.WalletHandler.Create)
			r.Get("/", cfg.WalletHandler.List)
			r.Get("/{id}", cfg.WalletHandler.Get)
			r.Get("/{id}/balance", cfg.WalletHandler.Balance)
			r.Post("/{id}/deposit", cfg.WalletHandler.Deposit)
			r.Post("/{id}/withdraw", cfg.WalletHandler.Withdraw)
			r.Put("/{id}/decimal-places", cfg.WalletHandler.SetDecimalPlaces)
			r.Post("/{id}/recalculate", cfg.WalletHandler.Recalculate)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByWallet)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByWallet)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Patch("/{id}", cfg.TransactionHandler.Update)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})
	})

	return r
}
