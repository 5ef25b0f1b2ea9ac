package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
)

const (
	consistencyCacheKey = "ledger:consistency"
	consistencyCacheTTL = 30 * time.Second
)

// ConsistencyReport is the result of a full ledger consistency check.
type ConsistencyReport struct {
	Consistent bool                                         `json:"consistent"`
	Total      decimal.Decimal                              `json:"total"`
	BySource   map[domain.TransactionSource]decimal.Decimal `json:"by_source"`
	CheckedAt  time.Time                                    `json:"checked_at"`
}

// LedgerUseCase runs ledger-wide aggregation checks.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	cache      Cache
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, cache Cache) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		cache:      cache,
	}
}

// CheckConsistency verifies that every posting pair nets to zero: the sum of
// all ledger legs must be zero, and so must the sum within each source.
// Recent reports are served from cache; the report can lag new postings by
// up to the cache TTL.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, consistencyCacheKey); err == nil && data != nil {
			var report ConsistencyReport
			if err := json.Unmarshal(data, &report); err == nil {
				return &report, nil
			}
		}
	}

	total, bySource, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	consistent := total.IsZero()
	for _, sum := range bySource {
		if !sum.IsZero() {
			consistent = false
		}
	}

	report := &ConsistencyReport{
		Consistent: consistent,
		Total:      total,
		BySource:   bySource,
		CheckedAt:  time.Now().UTC(),
	}

	if uc.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = uc.cache.Set(ctx, consistencyCacheKey, data, consistencyCacheTTL)
		}
	}

	return report, nil
}
