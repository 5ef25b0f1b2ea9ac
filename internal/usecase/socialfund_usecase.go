package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/infrastructure/metrics"
)

// SocialFundUseCase handles the group welfare fund ledger. The fund balance
// is never cached: it is always the sum of the transaction log.
type SocialFundUseCase struct {
	txManager  TransactionManager
	cycleRepo  CycleRepository
	memberRepo MemberRepository
	fundRepo   SocialFundRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewSocialFundUseCase creates a new SocialFundUseCase.
func NewSocialFundUseCase(
	txManager TransactionManager,
	cycleRepo CycleRepository,
	memberRepo MemberRepository,
	fundRepo SocialFundRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *SocialFundUseCase {
	return &SocialFundUseCase{
		txManager:  txManager,
		cycleRepo:  cycleRepo,
		memberRepo: memberRepo,
		fundRepo:   fundRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    m,
	}
}

// SocialFundInput represents one welfare fund movement. Amount is a
// positive magnitude for both contributions and withdrawals.
type SocialFundInput struct {
	GroupID         string
	CycleID         string
	MemberID        *string
	Amount          decimal.Decimal
	TransactionDate time.Time
	Reason          string
	MeetingID       *string
	ActorID         string
}

// Contribute records a welfare fund contribution.
func (uc *SocialFundUseCase) Contribute(ctx context.Context, input SocialFundInput) (*domain.SocialFundTransaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	fundTx, err := uc.contributeInTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, domain.AuditActionFundContribute, fundTx)
	uc.record(ctx, domain.SocialFundContribution, input.GroupID, input.CycleID)

	return fundTx, nil
}

func (uc *SocialFundUseCase) contributeInTx(ctx context.Context, tx Transaction, input SocialFundInput) (*domain.SocialFundTransaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	return uc.createInTx(ctx, tx, input, domain.SocialFundContribution, input.Amount)
}

// Withdraw records a welfare fund withdrawal. The cycle row is locked FOR
// UPDATE before the balance check so concurrent withdrawals (and meetings
// of the same cycle, which take the same lock) serialize instead of both
// reading the pre-existing balance. A withdrawal that would drive the fund
// balance below zero is rejected.
func (uc *SocialFundUseCase) Withdraw(ctx context.Context, input SocialFundInput) (*domain.SocialFundTransaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cycle, err := uc.cycleRepo.GetByIDForUpdate(ctx, tx, input.CycleID)
	if err != nil {
		return nil, err
	}

	if cycle.GroupID != input.GroupID {
		return nil, domain.ErrGroupMismatch
	}

	fundTx, err := uc.withdrawInTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, domain.AuditActionFundWithdraw, fundTx)
	uc.record(ctx, domain.SocialFundWithdrawal, input.GroupID, input.CycleID)

	return fundTx, nil
}

// withdrawInTx runs the withdrawal inside an existing transaction. The
// caller must already hold the cycle row lock; the balance check is only
// safe under it.
func (uc *SocialFundUseCase) withdrawInTx(ctx context.Context, tx Transaction, input SocialFundInput) (*domain.SocialFundTransaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	balance, err := uc.fundRepo.GetGroupBalanceTx(ctx, tx, input.GroupID, input.CycleID)
	if err != nil {
		return nil, err
	}

	if input.Amount.GreaterThan(balance) {
		return nil, domain.ErrInsufficientSocialFund
	}

	return uc.createInTx(ctx, tx, input, domain.SocialFundWithdrawal, input.Amount.Neg())
}

func (uc *SocialFundUseCase) createInTx(ctx context.Context, tx Transaction, input SocialFundInput, typ domain.SocialFundType, signedAmount decimal.Decimal) (*domain.SocialFundTransaction, error) {
	if input.MemberID != nil {
		if _, err := uc.memberRepo.GetByID(ctx, *input.MemberID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	movedAt := input.TransactionDate
	if movedAt.IsZero() {
		movedAt = now
	}

	fundTx := &domain.SocialFundTransaction{
		ID:              uc.idGen.Generate(),
		GroupID:         input.GroupID,
		CycleID:         input.CycleID,
		MemberID:        input.MemberID,
		MeetingID:       input.MeetingID,
		Type:            typ,
		Amount:          signedAmount,
		TransactionDate: movedAt,
		Reason:          input.Reason,
		CreatedBy:       input.ActorID,
		CreatedAt:       now,
	}

	if err := fundTx.Validate(); err != nil {
		return nil, err
	}

	if err := uc.fundRepo.Create(ctx, tx, fundTx); err != nil {
		return nil, err
	}

	return fundTx, nil
}

// GetGroupBalance returns the fund balance derived from the full
// transaction history.
func (uc *SocialFundUseCase) GetGroupBalance(ctx context.Context, groupID, cycleID string) (decimal.Decimal, error) {
	return uc.fundRepo.GetGroupBalance(ctx, groupID, cycleID)
}

// ListByGroup lists welfare fund transactions for a group and cycle.
func (uc *SocialFundUseCase) ListByGroup(ctx context.Context, groupID, cycleID string, limit, offset int) ([]*domain.SocialFundTransaction, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.fundRepo.ListByGroup(ctx, groupID, cycleID, limit, offset)
}

func (uc *SocialFundUseCase) record(ctx context.Context, typ domain.SocialFundType, groupID, cycleID string) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.SocialFundTransactions.WithLabelValues(string(typ)).Inc()

	if balance, err := uc.fundRepo.GetGroupBalance(ctx, groupID, cycleID); err == nil {
		uc.metrics.SocialFundBalance.WithLabelValues(groupID, cycleID).Set(balance.InexactFloat64())
	}
}

func (uc *SocialFundUseCase) audit(ctx context.Context, actorID string, action domain.AuditAction, fundTx *domain.SocialFundTransaction) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actorID,
		Action:       string(action),
		ResourceType: "social_fund",
		ResourceID:   fundTx.ID,
		AfterState:   domain.MarshalState(fundTx),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}
}
