package integration

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	adaptershttp "github.com/iho/vslaledger/internal/adapter/http"
	"github.com/iho/vslaledger/internal/adapter/http/handler"
	postgresrepo "github.com/iho/vslaledger/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/vslaledger/internal/adapter/repository/redis"
	infraredis "github.com/iho/vslaledger/internal/infrastructure/redis"
	"github.com/iho/vslaledger/internal/usecase"
	"github.com/iho/vslaledger/tests/testutil"
)

// testEnv wires the full stack against the integration database. Handlers
// and repositories share one pool so tests can assert on rows directly.
type testEnv struct {
	db        *testutil.TestDB
	router    http.Handler
	redis     *redis.Client
	processor *usecase.MeetingProcessor
	loans     *usecase.LoanUseCase
	fund      *usecase.SocialFundUseCase
	ledger    *usecase.LedgerUseCase

	entryRepo  *postgresrepo.EntryRepository
	outboxRepo *postgresrepo.OutboxRepository
	auditRepo  *postgresrepo.AuditRepository
}

func newTestEnv(t *testing.T, ctx context.Context) *testEnv {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	if err := redisClient.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}

	pool := testDB.Pool
	txManager := postgresrepo.NewTxManager(pool)
	cycleRepo := postgresrepo.NewCycleRepository(pool)
	memberRepo := postgresrepo.NewMemberRepository(pool)
	groupRepo := postgresrepo.NewGroupRepository(pool)
	meetingRepo := postgresrepo.NewMeetingRepository(pool)
	entryRepo := postgresrepo.NewEntryRepository(pool)
	loanRepo := postgresrepo.NewLoanRepository(pool)
	loanTxRepo := postgresrepo.NewLoanTransactionRepository(pool)
	shareRepo := postgresrepo.NewShareRepository(pool)
	fundRepo := postgresrepo.NewSocialFundRepository(pool)
	attendanceRepo := postgresrepo.NewAttendanceRepository(pool)
	actionPlanRepo := postgresrepo.NewActionPlanRepository(pool)
	outboxRepo := postgresrepo.NewOutboxRepository(pool)
	auditRepo := postgresrepo.NewAuditRepository(pool)
	ledgerRepo := postgresrepo.NewLedgerRepository(pool)
	idGen := postgresrepo.NewULIDGenerator()

	loanUC := usecase.NewLoanUseCase(txManager, cycleRepo, memberRepo, loanRepo, loanTxRepo, entryRepo, outboxRepo, auditRepo, idGen, nil)
	shareUC := usecase.NewShareUseCase(txManager, cycleRepo, memberRepo, shareRepo, entryRepo, auditRepo, idGen, nil)
	fundUC := usecase.NewSocialFundUseCase(txManager, cycleRepo, memberRepo, fundRepo, auditRepo, idGen, nil)
	entryUC := usecase.NewEntryUseCase(entryRepo, memberRepo)
	groupUC := usecase.NewGroupUseCase(groupRepo, cycleRepo, memberRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, redisrepo.NewCache(redisClient))

	processor := usecase.NewMeetingProcessor(usecase.MeetingProcessorConfig{
		TxManager:      txManager,
		MeetingRepo:    meetingRepo,
		CycleRepo:      cycleRepo,
		MemberRepo:     memberRepo,
		AttendanceRepo: attendanceRepo,
		ActionPlanRepo: actionPlanRepo,
		EntryRepo:      entryRepo,
		OutboxRepo:     outboxRepo,
		AuditRepo:      auditRepo,
		IDGen:          idGen,
		Retrier:        postgresrepo.NewRetrier(),
		Loans:          loanUC,
		Shares:         shareUC,
		SocialFund:     fundUC,
	})

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		MeetingHandler:    handler.NewMeetingHandler(processor, entryUC),
		LoanHandler:       handler.NewLoanHandler(loanUC),
		ShareHandler:      handler.NewShareHandler(shareUC),
		SocialFundHandler: handler.NewSocialFundHandler(fundUC),
		GroupHandler:      handler.NewGroupHandler(groupUC, entryUC),
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  redisrepo.NewIdempotencyStore(redisClient),
	})

	return &testEnv{
		db:         testDB,
		router:     router,
		redis:      redisClient,
		processor:  processor,
		loans:      loanUC,
		fund:       fundUC,
		ledger:     ledgerUC,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
	}
}
