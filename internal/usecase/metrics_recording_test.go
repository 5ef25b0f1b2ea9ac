package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/infrastructure/metrics"
	"github.com/iho/vslaledger/internal/usecase"
	"github.com/iho/vslaledger/internal/usecase/mocks"
)

// newTestMetrics points the default registerer at a throwaway registry so
// each test gets fresh collectors.
func newTestMetrics() *metrics.Metrics {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	return metrics.New()
}

func TestMeetingProcessor_RecordsMetrics(t *testing.T) {
	m := newTestMetrics()
	env := newMeetingEnvWithMetrics(false, m)
	ctx := context.Background()

	meeting := newTestMeeting("metrics-1")
	meeting.Transactions = []domain.MeetingTransaction{
		{MemberID: "mem-1", Amount: decimal.NewFromInt(2000), Source: domain.SourceSavings},
	}
	meeting.Loans = []domain.LoanApplication{
		{BorrowerID: "mem-2", Principal: decimal.NewFromInt(100000), DurationMonths: 3},
	}
	memberID := "mem-1"
	meeting.SocialFund = []domain.SocialFundLine{
		{MemberID: &memberID, Type: domain.SocialFundContribution, Amount: decimal.NewFromInt(500)},
	}

	result, err := env.processor.SubmitMeeting(ctx, meeting, "officer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}

	if got := promtestutil.ToFloat64(m.MeetingsProcessed.WithLabelValues(string(domain.ProcessingCompleted))); got != 1 {
		t.Errorf("expected 1 completed meeting, got %v", got)
	}
	if got := promtestutil.CollectAndCount(m.MeetingDuration); got != 1 {
		t.Errorf("expected 1 duration observation, got %d", got)
	}
	// Savings pair plus disbursement pair.
	if got := promtestutil.ToFloat64(m.PostingsWritten); got != 4 {
		t.Errorf("expected 4 postings, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.LoansDisbursed); got != 1 {
		t.Errorf("expected 1 disbursed loan, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.LoansOutstanding); got != 1 {
		t.Errorf("expected 1 outstanding loan, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.SocialFundTransactions.WithLabelValues(string(domain.SocialFundContribution))); got != 1 {
		t.Errorf("expected 1 fund contribution, got %v", got)
	}
}

func TestMeetingProcessor_FailedMeetingMetrics(t *testing.T) {
	m := newTestMetrics()
	env := newMeetingEnvWithMetrics(false, m)

	meeting := newTestMeeting("metrics-failed-1")
	meeting.GroupID = "grp-other"

	result, err := env.processor.SubmitMeeting(context.Background(), meeting, "officer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Fatal("expected failed result")
	}

	if got := promtestutil.ToFloat64(m.MeetingsProcessed.WithLabelValues(string(domain.ProcessingFailed))); got != 1 {
		t.Errorf("expected 1 failed meeting, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.MeetingsProcessed.WithLabelValues(string(domain.ProcessingCompleted))); got != 0 {
		t.Errorf("expected 0 completed meetings, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.MeetingIssues.WithLabelValues(domain.IssueGroupMismatch, "error")); got != 1 {
		t.Errorf("expected 1 group mismatch issue, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.PostingsWritten); got != 0 {
		t.Errorf("expected no postings for a failed meeting, got %v", got)
	}
}

func TestLoanUseCase_RecordsMetrics(t *testing.T) {
	m := newTestMetrics()
	env := newLoanEnv()
	env.uc = usecase.NewLoanUseCase(
		mocks.NewMockTransactionManager(),
		env.cycles, env.members, env.loans, env.loanTxs,
		env.entries, env.outbox, env.audit,
		mocks.NewMockIDGenerator(),
		m,
	)
	ctx := context.Background()

	loan, err := env.uc.Disburse(ctx, usecase.DisburseLoanInput{
		CycleID:        "cycle-1",
		BorrowerID:     "mem-1",
		Principal:      decimal.NewFromInt(50000),
		DurationMonths: 3,
		ActorID:        "officer-1",
	})
	if err != nil {
		t.Fatalf("disburse: %v", err)
	}

	if got := promtestutil.ToFloat64(m.LoansDisbursed); got != 1 {
		t.Errorf("expected 1 disbursed loan, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.LoansOutstanding); got != 1 {
		t.Errorf("expected 1 outstanding loan, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.PostingsWritten); got != 2 {
		t.Errorf("expected 2 postings, got %v", got)
	}

	// 50000 at 10 percent flat. Full settlement closes the loan.
	if _, err := env.uc.RecordRepayment(ctx, usecase.RecordRepaymentInput{
		LoanID:          loan.ID,
		Amount:          decimal.NewFromInt(55000),
		TransactionDate: time.Now().UTC(),
		ActorID:         "officer-1",
	}); err != nil {
		t.Fatalf("repay: %v", err)
	}

	if got := promtestutil.ToFloat64(m.LoanRepayments); got != 1 {
		t.Errorf("expected 1 repayment, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.LoansOutstanding); got != 0 {
		t.Errorf("expected 0 outstanding loans after settlement, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.PostingsWritten); got != 4 {
		t.Errorf("expected 4 postings, got %v", got)
	}
}

func TestSocialFundUseCase_RecordsMetrics(t *testing.T) {
	m := newTestMetrics()
	env := newFundEnv()
	env.uc = usecase.NewSocialFundUseCase(
		mocks.NewMockTransactionManager(),
		env.cycles,
		mocks.NewMockMemberRepository(),
		env.fund,
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		m,
	)
	ctx := context.Background()

	if _, err := env.uc.Contribute(ctx, usecase.SocialFundInput{
		GroupID: "grp-1",
		CycleID: "cycle-1",
		Amount:  decimal.NewFromInt(2000),
		ActorID: "officer-1",
	}); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	if _, err := env.uc.Withdraw(ctx, usecase.SocialFundInput{
		GroupID: "grp-1",
		CycleID: "cycle-1",
		Amount:  decimal.NewFromInt(500),
		ActorID: "officer-1",
	}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if got := promtestutil.ToFloat64(m.SocialFundTransactions.WithLabelValues(string(domain.SocialFundContribution))); got != 1 {
		t.Errorf("expected 1 contribution, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.SocialFundTransactions.WithLabelValues(string(domain.SocialFundWithdrawal))); got != 1 {
		t.Errorf("expected 1 withdrawal, got %v", got)
	}
	if got := promtestutil.ToFloat64(m.SocialFundBalance.WithLabelValues("grp-1", "cycle-1")); got != 1500 {
		t.Errorf("expected balance gauge 1500, got %v", got)
	}
}
