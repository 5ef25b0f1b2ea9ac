package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
	"github.com/iho/vslaledger/internal/usecase/mocks"
)

func newShareEnv() (*usecase.ShareUseCase, *mocks.MockShareRepository, *mocks.MockEntryRepository) {
	cycles := mocks.NewMockCycleRepository()
	members := mocks.NewMockMemberRepository()
	shares := mocks.NewMockShareRepository()
	entries := mocks.NewMockEntryRepository()

	ctx := context.Background()
	cycles.Create(ctx, &domain.Cycle{
		ID:         "cycle-1",
		GroupID:    "grp-1",
		SharePrice: decimal.NewFromInt(5000),
		Status:     domain.CycleActive,
	})
	members.Create(ctx, &domain.Member{ID: "mem-1", GroupID: "grp-1", Name: "Amina"})
	members.Create(ctx, &domain.Member{ID: "mem-other", GroupID: "grp-2", Name: "Outsider"})

	uc := usecase.NewShareUseCase(
		mocks.NewMockTransactionManager(),
		cycles, members, shares, entries,
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)
	return uc, shares, entries
}

func TestShareUseCase_WrappedMemberLookupError(t *testing.T) {
	cycles := mocks.NewMockCycleRepository()
	members := mocks.NewMockMemberRepository()

	ctx := context.Background()
	cycles.Create(ctx, &domain.Cycle{
		ID:         "cycle-1",
		GroupID:    "grp-1",
		SharePrice: decimal.NewFromInt(5000),
		Status:     domain.CycleActive,
	})
	members.GetByIDFunc = func(ctx context.Context, id string) (*domain.Member, error) {
		return nil, fmt.Errorf("get member %s: %w", id, domain.ErrMemberNotFound)
	}

	uc := usecase.NewShareUseCase(
		mocks.NewMockTransactionManager(),
		cycles, members,
		mocks.NewMockShareRepository(),
		mocks.NewMockEntryRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)

	_, err := uc.PurchaseShares(ctx, usecase.PurchaseSharesInput{
		CycleID:        "cycle-1",
		InvestorID:     "mem-1",
		NumberOfShares: 1,
		ActorID:        "officer-1",
	})
	if !errors.Is(err, domain.ErrInvestorNotFound) {
		t.Fatalf("expected ErrInvestorNotFound, got %v", err)
	}
}

func TestShareUseCase_PurchaseShares(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.PurchaseSharesInput
		expectError error
		totalPaid   string
	}{
		{
			name: "price from cycle",
			input: usecase.PurchaseSharesInput{
				CycleID:        "cycle-1",
				InvestorID:     "mem-1",
				NumberOfShares: 5,
				ActorID:        "officer-1",
			},
			totalPaid: "25000",
		},
		{
			name: "explicit price",
			input: usecase.PurchaseSharesInput{
				CycleID:        "cycle-1",
				InvestorID:     "mem-1",
				NumberOfShares: 3,
				SharePrice:     decimal.NewFromInt(2000),
				ActorID:        "officer-1",
			},
			totalPaid: "6000",
		},
		{
			name: "unknown investor",
			input: usecase.PurchaseSharesInput{
				CycleID:        "cycle-1",
				InvestorID:     "ghost",
				NumberOfShares: 1,
				ActorID:        "officer-1",
			},
			expectError: domain.ErrInvestorNotFound,
		},
		{
			name: "investor from another group",
			input: usecase.PurchaseSharesInput{
				CycleID:        "cycle-1",
				InvestorID:     "mem-other",
				NumberOfShares: 1,
				ActorID:        "officer-1",
			},
			expectError: domain.ErrInvestorNotFound,
		},
		{
			name: "zero shares",
			input: usecase.PurchaseSharesInput{
				CycleID:        "cycle-1",
				InvestorID:     "mem-1",
				NumberOfShares: 0,
				ActorID:        "officer-1",
			},
			expectError: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, shares, entries := newShareEnv()
			ctx := context.Background()

			purchase, err := uc.PurchaseShares(ctx, tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				if got, _ := shares.ListByCycle(ctx, "cycle-1", 10, 0); len(got) != 0 {
					t.Errorf("expected no stored purchase, got %d", len(got))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if purchase.TotalPaid.String() != tt.totalPaid {
				t.Errorf("expected total paid %s, got %s", tt.totalPaid, purchase.TotalPaid)
			}
			if !purchase.TotalPaid.Equal(domain.ShareTotal(purchase.NumberOfShares, purchase.SharePrice)) {
				t.Error("share total integrity broken")
			}

			legs := entries.All()
			if len(legs) != 2 {
				t.Fatalf("expected 2 ledger legs, got %d", len(legs))
			}
			if !legs[0].Amount.Add(legs[1].Amount).IsZero() {
				t.Error("legs do not net to zero")
			}
		})
	}
}
