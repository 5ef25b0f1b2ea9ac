package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
	"github.com/iho/vslaledger/internal/usecase/mocks"
)

type fundEnv struct {
	cycles *mocks.MockCycleRepository
	fund   *mocks.MockSocialFundRepository
	uc     *usecase.SocialFundUseCase
}

func newFundEnv() *fundEnv {
	env := &fundEnv{
		cycles: mocks.NewMockCycleRepository(),
		fund:   mocks.NewMockSocialFundRepository(),
	}

	members := mocks.NewMockMemberRepository()

	ctx := context.Background()
	env.cycles.Create(ctx, &domain.Cycle{
		ID:      "cycle-1",
		GroupID: "grp-1",
		Status:  domain.CycleActive,
	})
	members.Create(ctx, &domain.Member{ID: "mem-1", GroupID: "grp-1", Name: "Amina"})

	env.uc = usecase.NewSocialFundUseCase(
		mocks.NewMockTransactionManager(),
		env.cycles, members, env.fund,
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)
	return env
}

func TestSocialFundUseCase_ContributeAndWithdraw(t *testing.T) {
	env := newFundEnv()
	ctx := context.Background()
	memberID := "mem-1"

	contribution, err := env.uc.Contribute(ctx, usecase.SocialFundInput{
		GroupID:  "grp-1",
		CycleID:  "cycle-1",
		MemberID: &memberID,
		Amount:   decimal.NewFromInt(2000),
		ActorID:  "officer-1",
	})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if !contribution.Amount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected stored amount 2000, got %s", contribution.Amount)
	}

	withdrawal, err := env.uc.Withdraw(ctx, usecase.SocialFundInput{
		GroupID: "grp-1",
		CycleID: "cycle-1",
		Amount:  decimal.NewFromInt(500),
		Reason:  "medical emergency",
		ActorID: "officer-1",
	})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !withdrawal.Amount.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("expected stored amount -500, got %s", withdrawal.Amount)
	}

	balance, err := env.uc.GetGroupBalance(ctx, "grp-1", "cycle-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected balance 1500, got %s", balance)
	}
}

func TestSocialFundUseCase_WithdrawRejectsOverdraw(t *testing.T) {
	env := newFundEnv()
	ctx := context.Background()

	if _, err := env.uc.Contribute(ctx, usecase.SocialFundInput{
		GroupID: "grp-1",
		CycleID: "cycle-1",
		Amount:  decimal.NewFromInt(1000),
		ActorID: "officer-1",
	}); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	_, err := env.uc.Withdraw(ctx, usecase.SocialFundInput{
		GroupID: "grp-1",
		CycleID: "cycle-1",
		Amount:  decimal.NewFromInt(5000),
		ActorID: "officer-1",
	})
	if !errors.Is(err, domain.ErrInsufficientSocialFund) {
		t.Fatalf("expected ErrInsufficientSocialFund, got %v", err)
	}

	// The rejected withdrawal left no row behind.
	rows, _ := env.fund.ListByGroup(ctx, "grp-1", "cycle-1", 10, 0)
	if len(rows) != 1 {
		t.Errorf("expected 1 fund row, got %d", len(rows))
	}
}

func TestSocialFundUseCase_WithdrawLocksCycleRow(t *testing.T) {
	env := newFundEnv()
	ctx := context.Background()

	if _, err := env.uc.Contribute(ctx, usecase.SocialFundInput{
		GroupID: "grp-1",
		CycleID: "cycle-1",
		Amount:  decimal.NewFromInt(1000),
		ActorID: "officer-1",
	}); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	locked := 0
	env.cycles.GetByIDForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Cycle, error) {
		locked++
		if id != "cycle-1" {
			t.Errorf("expected lock on cycle-1, got %s", id)
		}
		return env.cycles.GetByID(ctx, id)
	}

	if _, err := env.uc.Withdraw(ctx, usecase.SocialFundInput{
		GroupID: "grp-1",
		CycleID: "cycle-1",
		Amount:  decimal.NewFromInt(500),
		ActorID: "officer-1",
	}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if locked != 1 {
		t.Errorf("expected 1 cycle row lock, got %d", locked)
	}
}

func TestSocialFundUseCase_WithdrawRejectsWrongGroup(t *testing.T) {
	env := newFundEnv()

	_, err := env.uc.Withdraw(context.Background(), usecase.SocialFundInput{
		GroupID: "grp-other",
		CycleID: "cycle-1",
		Amount:  decimal.NewFromInt(100),
		ActorID: "officer-1",
	})
	if !errors.Is(err, domain.ErrGroupMismatch) {
		t.Fatalf("expected ErrGroupMismatch, got %v", err)
	}
}

func TestSocialFundUseCase_WithdrawUnknownCycle(t *testing.T) {
	env := newFundEnv()

	_, err := env.uc.Withdraw(context.Background(), usecase.SocialFundInput{
		GroupID: "grp-1",
		CycleID: "cycle-ghost",
		Amount:  decimal.NewFromInt(100),
		ActorID: "officer-1",
	})
	if !errors.Is(err, domain.ErrCycleNotFound) {
		t.Fatalf("expected ErrCycleNotFound, got %v", err)
	}
}

func TestSocialFundUseCase_RejectsUnknownMember(t *testing.T) {
	env := newFundEnv()
	ghost := "ghost"

	_, err := env.uc.Contribute(context.Background(), usecase.SocialFundInput{
		GroupID:  "grp-1",
		CycleID:  "cycle-1",
		MemberID: &ghost,
		Amount:   decimal.NewFromInt(100),
		ActorID:  "officer-1",
	})
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}
