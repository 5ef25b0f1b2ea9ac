package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
	"github.com/iho/vslaledger/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		amounts    map[domain.TransactionSource][]int64
		consistent bool
	}{
		{
			name: "balanced ledger",
			amounts: map[domain.TransactionSource][]int64{
				domain.SourceSavings:       {-2000, 2000, -500, 500},
				domain.SourceLoanRepayment: {-30000, 30000},
			},
			consistent: true,
		},
		{
			name:       "empty ledger",
			amounts:    nil,
			consistent: true,
		},
		{
			name: "orphaned leg",
			amounts: map[domain.TransactionSource][]int64{
				domain.SourceSavings: {-2000, 2000, 500},
			},
			consistent: false,
		},
		{
			name: "sources offset each other",
			amounts: map[domain.TransactionSource][]int64{
				domain.SourceSavings:     {100},
				domain.SourceFinePayment: {-100},
			},
			consistent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := mocks.NewMockEntryRepository()
			ctx := context.Background()
			for source, amounts := range tt.amounts {
				for _, a := range amounts {
					entries.Create(ctx, nil, &domain.AccountTransaction{
						GroupID: "grp-1",
						Amount:  decimal.NewFromInt(a),
						Source:  source,
					})
				}
			}

			uc := usecase.NewLedgerUseCase(mocks.NewMockLedgerRepository(entries), nil)

			report, err := uc.CheckConsistency(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if report.Consistent != tt.consistent {
				t.Errorf("expected consistent=%v, got %v (total %s)", tt.consistent, report.Consistent, report.Total)
			}
		})
	}
}

func TestLedgerUseCase_CachesReport(t *testing.T) {
	entries := mocks.NewMockEntryRepository()
	ledgerRepo := mocks.NewMockLedgerRepository(entries)
	cache := mocks.NewMockCache()
	uc := usecase.NewLedgerUseCase(ledgerRepo, cache)

	ctx := context.Background()

	calls := 0
	ledgerRepo.CheckConsistencyFunc = func(ctx context.Context) (decimal.Decimal, map[domain.TransactionSource]decimal.Decimal, error) {
		calls++
		return decimal.Zero, nil, nil
	}

	if _, err := uc.CheckConsistency(ctx); err != nil {
		t.Fatalf("first check: %v", err)
	}
	if _, err := uc.CheckConsistency(ctx); err != nil {
		t.Fatalf("second check: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
}
