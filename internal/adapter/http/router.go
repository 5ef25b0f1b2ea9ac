package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/iho/vslaledger/internal/adapter/http/handler"
	"github.com/iho/vslaledger/internal/adapter/http/middleware"
	"github.com/iho/vslaledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	MeetingHandler    *handler.MeetingHandler
	LoanHandler       *handler.LoanHandler
	ShareHandler      *handler.ShareHandler
	SocialFundHandler *handler.SocialFundHandler
	GroupHandler      *handler.GroupHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(log.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and observability endpoints
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

		// Meetings
		r.Route("/meetings", func(r chi.Router) {
			r.Post("/", cfg.MeetingHandler.Submit)
			r.Get("/{id}", cfg.MeetingHandler.Get)
			r.Get("/{id}/entries", cfg.MeetingHandler.ListEntries)
		})

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Disburse)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Post("/{id}/repayments", cfg.LoanHandler.Repay)
			r.Post("/{id}/penalties", cfg.LoanHandler.Penalty)
			r.Get("/{id}/balance", cfg.LoanHandler.Balance)
			r.Get("/{id}/transactions", cfg.LoanHandler.ListTransactions)
		})

		// Shares
		r.Route("/shares", func(r chi.Router) {
			r.Post("/", cfg.ShareHandler.Purchase)
		})

		// Social fund
		r.Route("/social-fund", func(r chi.Router) {
			r.Post("/contributions", cfg.SocialFundHandler.Contribute)
			r.Post("/withdrawals", cfg.SocialFundHandler.Withdraw)
		})

		// Groups, cycles and members
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", cfg.GroupHandler.Create)
			r.Get("/", cfg.GroupHandler.List)
			r.Get("/{id}", cfg.GroupHandler.Get)
			r.Post("/{id}/cycles", cfg.GroupHandler.CreateCycle)
			r.Get("/{id}/cycles", cfg.GroupHandler.ListCycles)
			r.Post("/{id}/members", cfg.GroupHandler.AddMember)
			r.Get("/{id}/members", cfg.GroupHandler.ListMembers)
			r.Get("/{id}/meetings", cfg.MeetingHandler.ListByGroup)
			r.Get("/{id}/entries", cfg.GroupHandler.ListEntries)
			r.Get("/{id}/social-fund", cfg.SocialFundHandler.List)
			r.Get("/{id}/social-fund/balance", cfg.SocialFundHandler.Balance)
		})

		r.Route("/cycles", func(r chi.Router) {
			r.Get("/{id}", cfg.GroupHandler.GetCycle)
			r.Get("/{id}/loans", cfg.LoanHandler.ListByCycle)
			r.Get("/{id}/shares", cfg.ShareHandler.ListByCycle)
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/{id}", cfg.GroupHandler.GetMember)
			r.Get("/{id}/statement", cfg.GroupHandler.MemberStatement)
			r.Get("/{id}/shares", cfg.ShareHandler.ListByInvestor)
		})

		// Ledger
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
