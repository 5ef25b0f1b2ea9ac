package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// ShareRepository implements usecase.ShareRepository.
type ShareRepository struct {
	pool *pgxpool.Pool
}

// NewShareRepository creates a new ShareRepository.
func NewShareRepository(pool *pgxpool.Pool) *ShareRepository {
	return &ShareRepository{pool: pool}
}

const shareColumns = `id, cycle_id, investor_id, number_of_shares, share_price, total_paid, purchase_date, created_by, created_at`

// Create creates a new share purchase within a transaction.
func (r *ShareRepository) Create(ctx context.Context, tx usecase.Transaction, share *domain.SharePurchase) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO share_purchases (`+shareColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		share.ID,
		share.CycleID,
		share.InvestorID,
		share.NumberOfShares,
		decimalToNumeric(share.SharePrice),
		decimalToNumeric(share.TotalPaid),
		timeToPgTimestamptz(share.PurchaseDate),
		share.CreatedBy,
		timeToPgTimestamptz(share.CreatedAt),
	)

	return err
}

// ListByCycle lists share purchases of a cycle.
func (r *ShareRepository) ListByCycle(ctx context.Context, cycleID string, limit, offset int) ([]*domain.SharePurchase, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+shareColumns+` FROM share_purchases WHERE cycle_id = $1 ORDER BY purchase_date DESC LIMIT $2 OFFSET $3`,
		cycleID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShares(rows)
}

// ListByInvestor lists one investor's share purchases.
func (r *ShareRepository) ListByInvestor(ctx context.Context, investorID string, limit, offset int) ([]*domain.SharePurchase, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+shareColumns+` FROM share_purchases WHERE investor_id = $1 ORDER BY purchase_date DESC LIMIT $2 OFFSET $3`,
		investorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShares(rows)
}

func scanShares(rows pgx.Rows) ([]*domain.SharePurchase, error) {
	var shares []*domain.SharePurchase

	for rows.Next() {
		var (
			share        domain.SharePurchase
			sharePrice   pgtype.Numeric
			totalPaid    pgtype.Numeric
			purchaseDate pgtype.Timestamptz
			createdAt    pgtype.Timestamptz
		)

		if err := rows.Scan(
			&share.ID,
			&share.CycleID,
			&share.InvestorID,
			&share.NumberOfShares,
			&sharePrice,
			&totalPaid,
			&purchaseDate,
			&share.CreatedBy,
			&createdAt,
		); err != nil {
			return nil, err
		}

		share.SharePrice = numericToDecimal(sharePrice)
		share.TotalPaid = numericToDecimal(totalPaid)
		share.PurchaseDate = purchaseDate.Time
		share.CreatedAt = createdAt.Time

		shares = append(shares, &share)
	}

	return shares, rows.Err()
}
