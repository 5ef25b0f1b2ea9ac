package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/vslaledger/internal/adapter/http"
	"github.com/iho/vslaledger/internal/adapter/http/handler"
	"github.com/iho/vslaledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/vslaledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/vslaledger/internal/adapter/repository/redis"
	"github.com/iho/vslaledger/internal/infrastructure/config"
	"github.com/iho/vslaledger/internal/infrastructure/eventpublisher"
	"github.com/iho/vslaledger/internal/infrastructure/logger"
	"github.com/iho/vslaledger/internal/infrastructure/logging"
	"github.com/iho/vslaledger/internal/infrastructure/metrics"
	"github.com/iho/vslaledger/internal/infrastructure/postgres"
	"github.com/iho/vslaledger/internal/infrastructure/redis"
	"github.com/iho/vslaledger/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.SetGlobalLevel(log.Logger.GetLevel())

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Register Prometheus metrics
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	groupRepo := postgresRepo.NewGroupRepository(pool)
	cycleRepo := postgresRepo.NewCycleRepository(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	meetingRepo := postgresRepo.NewMeetingRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	loanTxRepo := postgresRepo.NewLoanTransactionRepository(pool)
	shareRepo := postgresRepo.NewShareRepository(pool)
	fundRepo := postgresRepo.NewSocialFundRepository(pool)
	attendanceRepo := postgresRepo.NewAttendanceRepository(pool)
	actionPlanRepo := postgresRepo.NewActionPlanRepository(pool)
	var outboxRepo usecase.OutboxRepository = postgresRepo.NewOutboxRepository(pool)
	if !cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
	}
	auditRepo := postgresRepo.NewAuditRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	loanUC := usecase.NewLoanUseCase(txManager, cycleRepo, memberRepo, loanRepo, loanTxRepo, entryRepo, outboxRepo, auditRepo, idGen, m)
	shareUC := usecase.NewShareUseCase(txManager, cycleRepo, memberRepo, shareRepo, entryRepo, auditRepo, idGen, m)
	fundUC := usecase.NewSocialFundUseCase(txManager, cycleRepo, memberRepo, fundRepo, auditRepo, idGen, m)
	entryUC := usecase.NewEntryUseCase(entryRepo, memberRepo)
	groupUC := usecase.NewGroupUseCase(groupRepo, cycleRepo, memberRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, cache)
	processor := usecase.NewMeetingProcessor(usecase.MeetingProcessorConfig{
		TxManager:          txManager,
		MeetingRepo:        meetingRepo,
		CycleRepo:          cycleRepo,
		MemberRepo:         memberRepo,
		AttendanceRepo:     attendanceRepo,
		ActionPlanRepo:     actionPlanRepo,
		EntryRepo:          entryRepo,
		OutboxRepo:         outboxRepo,
		AuditRepo:          auditRepo,
		IDGen:              idGen,
		Retrier:            retrier,
		Loans:              loanUC,
		Shares:             shareUC,
		SocialFund:         fundUC,
		ActionPlansEnabled: cfg.ActionPlansEnabled,
		Metrics:            m,
	})

	// Initialize handlers
	meetingHandler := handler.NewMeetingHandler(processor, entryUC)
	loanHandler := handler.NewLoanHandler(loanUC)
	shareHandler := handler.NewShareHandler(shareUC)
	fundHandler := handler.NewSocialFundHandler(fundUC)
	groupHandler := handler.NewGroupHandler(groupUC, entryUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		MeetingHandler:    meetingHandler,
		LoanHandler:       loanHandler,
		ShareHandler:      shareHandler,
		SocialFundHandler: fundHandler,
		GroupHandler:      groupHandler,
		LedgerHandler:     ledgerHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	})

	// Start outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	if cfg.OutboxEnabled {
		slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(slogger.Logger),
			Logger:     slogger.Logger,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxPollInterval,
			Metrics:    m,
		})
		go func() {
			if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

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
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
