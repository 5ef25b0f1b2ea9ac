package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/infrastructure/metrics"
)

// LoanUseCase handles loan disbursement, repayment and penalty logic.
type LoanUseCase struct {
	txManager  TransactionManager
	cycleRepo  CycleRepository
	memberRepo MemberRepository
	loanRepo   LoanRepository
	loanTxRepo LoanTransactionRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(
	txManager TransactionManager,
	cycleRepo CycleRepository,
	memberRepo MemberRepository,
	loanRepo LoanRepository,
	loanTxRepo LoanTransactionRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *LoanUseCase {
	return &LoanUseCase{
		txManager:  txManager,
		cycleRepo:  cycleRepo,
		memberRepo: memberRepo,
		loanRepo:   loanRepo,
		loanTxRepo: loanTxRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    m,
	}
}

// DisburseLoanInput represents input for disbursing a new loan.
type DisburseLoanInput struct {
	CycleID          string
	BorrowerID       string
	Principal        decimal.Decimal
	InterestRate     decimal.Decimal
	DurationMonths   int
	DisbursementDate time.Time
	Purpose          string
	MeetingID        *string
	ActorID          string
}

// Disburse creates a loan, its opening transaction log row and the
// disbursement posting pair in one transaction.
func (uc *LoanUseCase) Disburse(ctx context.Context, input DisburseLoanInput) (*domain.Loan, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cycle, err := uc.cycleRepo.GetByIDForUpdate(ctx, tx, input.CycleID)
	if err != nil {
		return nil, err
	}

	loan, err := uc.disburseInTx(ctx, tx, cycle, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, domain.AuditActionLoanDisburse, loan.ID, nil, loan)

	if uc.metrics != nil {
		uc.metrics.LoansDisbursed.Inc()
		uc.metrics.LoanAmount.Observe(loan.Principal.InexactFloat64())
		uc.metrics.LoansOutstanding.Inc()
		uc.metrics.PostingsWritten.Add(2)
	}

	return loan, nil
}

// disburseInTx runs the disbursement inside an existing transaction. The
// cycle must already be loaded (and locked) by the caller.
func (uc *LoanUseCase) disburseInTx(ctx context.Context, tx Transaction, cycle *domain.Cycle, input DisburseLoanInput) (*domain.Loan, error) {
	if err := domain.ValidateAmount(input.Principal); err != nil {
		return nil, err
	}

	borrower, err := uc.memberRepo.GetByID(ctx, input.BorrowerID)
	if err != nil {
		return nil, err
	}

	if borrower.GroupID != cycle.GroupID {
		return nil, domain.ErrGroupMismatch
	}

	rate := input.InterestRate
	if rate.IsZero() {
		rate = cycle.InterestRate
	}

	now := time.Now().UTC()

	disbursedAt := input.DisbursementDate
	if disbursedAt.IsZero() {
		disbursedAt = now
	}

	totalDue := domain.LoanTotalDue(input.Principal, rate)

	loan := &domain.Loan{
		ID:               uc.idGen.Generate(),
		CycleID:          cycle.ID,
		GroupID:          cycle.GroupID,
		BorrowerID:       input.BorrowerID,
		Principal:        input.Principal,
		InterestRate:     rate,
		DurationMonths:   input.DurationMonths,
		TotalDue:         totalDue,
		AmountPaid:       decimal.Zero,
		Balance:          totalDue,
		DisbursementDate: disbursedAt,
		DueDate:          disbursedAt.AddDate(0, input.DurationMonths, 0),
		Status:           domain.LoanActive,
		Purpose:          input.Purpose,
		CreatedBy:        input.ActorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.loanRepo.Create(ctx, tx, loan); err != nil {
		return nil, err
	}

	// Opening log row carries the negated total due so that at any point
	// balance == -sum(loan transaction amounts).
	if err := uc.loanTxRepo.Create(ctx, tx, &domain.LoanTransaction{
		ID:              uc.idGen.Generate(),
		LoanID:          loan.ID,
		Amount:          totalDue.Neg(),
		Type:            domain.LoanTxDisbursement,
		TransactionDate: disbursedAt,
		Description:     "loan disbursement",
		CreatedBy:       input.ActorID,
		CreatedAt:       now,
	}); err != nil {
		return nil, err
	}

	// The borrower receives the principal: member leg positive, group leg
	// negative.
	loanID := loan.ID
	groupLeg, memberLeg := domain.NewPosting(domain.PostingParams{
		GroupLegID:   uc.idGen.Generate(),
		MemberLegID:  uc.idGen.Generate(),
		GroupID:      cycle.GroupID,
		MemberID:     input.BorrowerID,
		MemberAmount: input.Principal,
		Source:       domain.SourceLoanDisbursement,
		Date:         disbursedAt,
		Description:  "loan disbursement",
		MeetingID:    input.MeetingID,
		LoanID:       &loanID,
		ActorID:      input.ActorID,
		Now:          now,
	})

	if err := uc.entryRepo.Create(ctx, tx, groupLeg); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, tx, memberLeg); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   loan.ID,
		AggregateType: domain.AggregateTypeLoan,
		EventType:     domain.EventTypeLoanDisbursed,
		Payload: domain.MarshalState(domain.LoanDisbursedEvent{
			LoanID:     loan.ID,
			CycleID:    loan.CycleID,
			BorrowerID: loan.BorrowerID,
			Principal:  loan.Principal.String(),
			TotalDue:   loan.TotalDue.String(),
		}),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	return loan, nil
}

// RecordRepaymentInput represents input for recording a loan repayment.
type RecordRepaymentInput struct {
	LoanID          string
	Amount          decimal.Decimal
	TransactionDate time.Time
	MeetingID       *string
	ActorID         string
}

// RecordRepayment applies a repayment to a loan under a row lock. A
// repayment exceeding the outstanding balance is a hard error and nothing
// is written.
func (uc *LoanUseCase) RecordRepayment(ctx context.Context, input RecordRepaymentInput) (*domain.Loan, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	loan, err := uc.repayInTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, domain.AuditActionLoanRepay, loan.ID, nil, loan)

	if uc.metrics != nil {
		uc.metrics.LoanRepayments.Inc()
		uc.metrics.PostingsWritten.Add(2)

		if loan.Status == domain.LoanPaid {
			uc.metrics.LoansOutstanding.Dec()
		}
	}

	return loan, nil
}

func (uc *LoanUseCase) repayInTx(ctx context.Context, tx Transaction, input RecordRepaymentInput) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, input.LoanID)
	if err != nil {
		return nil, err
	}

	if err := loan.ValidateRepayment(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	paidAt := input.TransactionDate
	if paidAt.IsZero() {
		paidAt = now
	}

	if err := uc.loanTxRepo.Create(ctx, tx, &domain.LoanTransaction{
		ID:              uc.idGen.Generate(),
		LoanID:          loan.ID,
		Amount:          input.Amount,
		Type:            domain.LoanTxPayment,
		TransactionDate: paidAt,
		Description:     "loan repayment",
		CreatedBy:       input.ActorID,
		CreatedAt:       now,
	}); err != nil {
		return nil, err
	}

	amountPaid, balance, status := loan.ApplyRepayment(input.Amount)
	if err := uc.loanRepo.UpdateBalance(ctx, tx, loan.ID, amountPaid, balance, status, now); err != nil {
		return nil, err
	}

	loan.AmountPaid = amountPaid
	loan.Balance = balance
	loan.Status = status
	loan.UpdatedAt = now

	// The borrower pays the group back: member leg negative.
	loanID := loan.ID
	groupLeg, memberLeg := domain.NewPosting(domain.PostingParams{
		GroupLegID:   uc.idGen.Generate(),
		MemberLegID:  uc.idGen.Generate(),
		GroupID:      loan.GroupID,
		MemberID:     loan.BorrowerID,
		MemberAmount: input.Amount.Neg(),
		Source:       domain.SourceLoanRepayment,
		Date:         paidAt,
		Description:  "loan repayment",
		MeetingID:    input.MeetingID,
		LoanID:       &loanID,
		ActorID:      input.ActorID,
		Now:          now,
	})

	if err := uc.entryRepo.Create(ctx, tx, groupLeg); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, tx, memberLeg); err != nil {
		return nil, err
	}

	eventType := domain.EventTypeLoanRepaid
	if status == domain.LoanPaid {
		eventType = domain.EventTypeLoanPaidOff
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   loan.ID,
		AggregateType: domain.AggregateTypeLoan,
		EventType:     eventType,
		Payload: domain.MarshalState(domain.LoanRepaidEvent{
			LoanID:  loan.ID,
			Amount:  input.Amount.String(),
			Balance: balance.String(),
			Status:  string(status),
		}),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	return loan, nil
}

// RecordPenaltyInput represents input for recording a loan penalty.
type RecordPenaltyInput struct {
	LoanID          string
	Amount          decimal.Decimal // positive magnitude
	TransactionDate time.Time
	Reason          string
	ActorID         string
}

// RecordPenalty increases a loan's debt. Penalties are tracked against the
// loan only and post no account-transaction pair.
func (uc *LoanUseCase) RecordPenalty(ctx context.Context, input RecordPenaltyInput) (*domain.Loan, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, input.LoanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	penalizedAt := input.TransactionDate
	if penalizedAt.IsZero() {
		penalizedAt = now
	}

	description := input.Reason
	if description == "" {
		description = "loan penalty"
	}

	if err := uc.loanTxRepo.Create(ctx, tx, &domain.LoanTransaction{
		ID:              uc.idGen.Generate(),
		LoanID:          loan.ID,
		Amount:          input.Amount.Neg(),
		Type:            domain.LoanTxPenalty,
		TransactionDate: penalizedAt,
		Description:     description,
		CreatedBy:       input.ActorID,
		CreatedAt:       now,
	}); err != nil {
		return nil, err
	}

	balance := loan.Balance.Add(input.Amount)

	// A penalty on a settled loan re-opens it.
	status := loan.Status
	reopened := false
	if status == domain.LoanPaid && balance.GreaterThan(domain.BalanceEpsilon) {
		status = domain.LoanActive
		reopened = true
	}

	if err := uc.loanRepo.UpdateBalance(ctx, tx, loan.ID, loan.AmountPaid, balance, status, now); err != nil {
		return nil, err
	}

	loan.Balance = balance
	loan.Status = status
	loan.UpdatedAt = now

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, domain.AuditActionLoanPenalty, loan.ID, nil, loan)

	if uc.metrics != nil {
		uc.metrics.LoanPenalties.Inc()

		if reopened {
			uc.metrics.LoansOutstanding.Inc()
		}
	}

	return loan, nil
}

// CalculateBalance recomputes a loan balance from its full transaction log.
// The result must match the stored balance field.
func (uc *LoanUseCase) CalculateBalance(ctx context.Context, loanID string) (decimal.Decimal, error) {
	txs, err := uc.loanTxRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}

	if len(txs) == 0 {
		if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
			return decimal.Zero, err
		}
	}

	return domain.LoanBalanceFromHistory(txs), nil
}

// GetLoan retrieves a loan by ID.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// ListLoanTransactions lists the transaction log of a loan.
func (uc *LoanUseCase) ListLoanTransactions(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error) {
	return uc.loanTxRepo.ListByLoan(ctx, loanID)
}

// ListLoansByCycle lists loans issued in a cycle.
func (uc *LoanUseCase) ListLoansByCycle(ctx context.Context, cycleID string, limit, offset int) ([]*domain.Loan, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.loanRepo.ListByCycle(ctx, cycleID, limit, offset)
}

// MarkOverdue flips active loans past their due date to overdue and
// returns how many were updated.
func (uc *LoanUseCase) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	loans, err := uc.loanRepo.ListDueBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, loan := range loans {
		if loan.Status != domain.LoanActive {
			continue
		}

		if err := uc.loanRepo.UpdateStatus(ctx, loan.ID, domain.LoanOverdue, time.Now().UTC()); err != nil {
			return updated, err
		}

		updated++
	}

	return updated, nil
}

func (uc *LoanUseCase) audit(ctx context.Context, actorID string, action domain.AuditAction, loanID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actorID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeLoan,
		ResourceID:   loanID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}
}
