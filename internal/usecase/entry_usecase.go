package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
)

// EntryUseCase exposes read access to the account transaction ledger.
type EntryUseCase struct {
	entryRepo  EntryRepository
	memberRepo MemberRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository, memberRepo MemberRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo:  entryRepo,
		memberRepo: memberRepo,
	}
}

// ListByMeeting lists all ledger legs written for one meeting.
func (uc *EntryUseCase) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.AccountTransaction, error) {
	return uc.entryRepo.ListByMeeting(ctx, meetingID)
}

// ListByGroup lists ledger legs of a group.
func (uc *EntryUseCase) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.AccountTransaction, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.entryRepo.ListByGroup(ctx, groupID, limit, offset)
}

// MemberStatement is a member's ledger history with a running net position.
type MemberStatement struct {
	Member       *domain.Member               `json:"member"`
	Transactions []*domain.AccountTransaction `json:"transactions"`
	NetPosition  decimal.Decimal              `json:"net_position"`
}

// GetMemberStatement returns a member's transactions and their signed sum.
// A positive net position means the group owes the member on balance.
func (uc *EntryUseCase) GetMemberStatement(ctx context.Context, memberID string, limit, offset int) (*MemberStatement, error) {
	member, err := uc.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	limit, offset, _ = domain.ValidatePagination(limit, offset)

	txs, err := uc.entryRepo.ListByMember(ctx, memberID, limit, offset)
	if err != nil {
		return nil, err
	}

	net := decimal.Zero
	for _, tx := range txs {
		net = net.Add(tx.Amount)
	}

	return &MemberStatement{
		Member:       member,
		Transactions: txs,
		NetPosition:  net,
	}, nil
}
