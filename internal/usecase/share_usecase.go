package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/infrastructure/metrics"
)

// ShareUseCase handles the share register.
type ShareUseCase struct {
	txManager  TransactionManager
	cycleRepo  CycleRepository
	memberRepo MemberRepository
	shareRepo  ShareRepository
	entryRepo  EntryRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewShareUseCase creates a new ShareUseCase.
func NewShareUseCase(
	txManager TransactionManager,
	cycleRepo CycleRepository,
	memberRepo MemberRepository,
	shareRepo ShareRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *ShareUseCase {
	return &ShareUseCase{
		txManager:  txManager,
		cycleRepo:  cycleRepo,
		memberRepo: memberRepo,
		shareRepo:  shareRepo,
		entryRepo:  entryRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    m,
	}
}

// PurchaseSharesInput represents input for a share purchase.
type PurchaseSharesInput struct {
	CycleID        string
	InvestorID     string
	NumberOfShares int64
	SharePrice     decimal.Decimal // zero means the cycle's share price
	PurchaseDate   time.Time
	MeetingID      *string
	ActorID        string
}

// PurchaseShares records a share purchase and its posting pair.
func (uc *ShareUseCase) PurchaseShares(ctx context.Context, input PurchaseSharesInput) (*domain.SharePurchase, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cycle, err := uc.cycleRepo.GetByIDForUpdate(ctx, tx, input.CycleID)
	if err != nil {
		return nil, err
	}

	share, err := uc.purchaseInTx(ctx, tx, cycle, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, share)

	if uc.metrics != nil {
		uc.metrics.SharePurchases.Inc()
		uc.metrics.SharesSold.Add(float64(share.NumberOfShares))
		uc.metrics.PostingsWritten.Add(2)
	}

	return share, nil
}

// purchaseInTx runs the purchase inside an existing transaction. The cycle
// must already be loaded (and locked) by the caller.
func (uc *ShareUseCase) purchaseInTx(ctx context.Context, tx Transaction, cycle *domain.Cycle, input PurchaseSharesInput) (*domain.SharePurchase, error) {
	investor, err := uc.memberRepo.GetByID(ctx, input.InvestorID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrInvestorNotFound
		}

		return nil, err
	}

	if investor.GroupID != cycle.GroupID {
		return nil, domain.ErrInvestorNotFound
	}

	price := input.SharePrice
	if price.IsZero() {
		price = cycle.SharePrice
	}

	now := time.Now().UTC()

	purchasedAt := input.PurchaseDate
	if purchasedAt.IsZero() {
		purchasedAt = now
	}

	share := &domain.SharePurchase{
		ID:             uc.idGen.Generate(),
		CycleID:        cycle.ID,
		InvestorID:     input.InvestorID,
		NumberOfShares: input.NumberOfShares,
		SharePrice:     price,
		TotalPaid:      domain.ShareTotal(input.NumberOfShares, price),
		PurchaseDate:   purchasedAt,
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
	}

	if err := share.Validate(); err != nil {
		return nil, err
	}

	if err := uc.shareRepo.Create(ctx, tx, share); err != nil {
		return nil, err
	}

	// The investor pays the group for the shares: member leg negative.
	groupLeg, memberLeg := domain.NewPosting(domain.PostingParams{
		GroupLegID:   uc.idGen.Generate(),
		MemberLegID:  uc.idGen.Generate(),
		GroupID:      cycle.GroupID,
		MemberID:     input.InvestorID,
		MemberAmount: share.TotalPaid.Neg(),
		Source:       domain.SourceSharePurchase,
		Date:         purchasedAt,
		Description:  "share purchase",
		MeetingID:    input.MeetingID,
		ActorID:      input.ActorID,
		Now:          now,
	})

	if err := uc.entryRepo.Create(ctx, tx, groupLeg); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, tx, memberLeg); err != nil {
		return nil, err
	}

	return share, nil
}

// ListByCycle lists share purchases in a cycle.
func (uc *ShareUseCase) ListByCycle(ctx context.Context, cycleID string, limit, offset int) ([]*domain.SharePurchase, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.shareRepo.ListByCycle(ctx, cycleID, limit, offset)
}

// ListByInvestor lists an investor's share purchases.
func (uc *ShareUseCase) ListByInvestor(ctx context.Context, investorID string, limit, offset int) ([]*domain.SharePurchase, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.shareRepo.ListByInvestor(ctx, investorID, limit, offset)
}

func (uc *ShareUseCase) audit(ctx context.Context, actorID string, share *domain.SharePurchase) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actorID,
		Action:       string(domain.AuditActionSharePurchase),
		ResourceType: "share",
		ResourceID:   share.ID,
		AfterState:   domain.MarshalState(share),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionSharePurchase), string(domain.AuditStatusSuccess)).Inc()
	}
}
