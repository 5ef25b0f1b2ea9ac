package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency sums all ledger legs globally and per source. A balanced
// ledger returns zero everywhere.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, map[domain.TransactionSource]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT source, COALESCE(SUM(amount), 0)
		FROM account_transactions
		GROUP BY source`)
	if err != nil {
		return decimal.Zero, nil, err
	}
	defer rows.Close()

	total := decimal.Zero
	bySource := make(map[domain.TransactionSource]decimal.Decimal)

	for rows.Next() {
		var (
			source string
			sum    pgtype.Numeric
		)

		if err := rows.Scan(&source, &sum); err != nil {
			return decimal.Zero, nil, err
		}

		d := numericToDecimal(sum)
		bySource[domain.TransactionSource(source)] = d
		total = total.Add(d)
	}

	return total, bySource, rows.Err()
}
