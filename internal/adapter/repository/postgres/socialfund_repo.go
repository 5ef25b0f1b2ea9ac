package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// SocialFundRepository implements usecase.SocialFundRepository. The fund
// balance is always an aggregation over the transaction log.
type SocialFundRepository struct {
	pool *pgxpool.Pool
}

// NewSocialFundRepository creates a new SocialFundRepository.
func NewSocialFundRepository(pool *pgxpool.Pool) *SocialFundRepository {
	return &SocialFundRepository{pool: pool}
}

const fundColumns = `id, group_id, cycle_id, member_id, meeting_id, type, amount, transaction_date, reason, created_by, created_at`

// Create creates a new social fund transaction within a transaction.
func (r *SocialFundRepository) Create(ctx context.Context, tx usecase.Transaction, fundTx *domain.SocialFundTransaction) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO social_fund_transactions (`+fundColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		fundTx.ID,
		fundTx.GroupID,
		fundTx.CycleID,
		stringPtrToText(fundTx.MemberID),
		stringPtrToText(fundTx.MeetingID),
		string(fundTx.Type),
		decimalToNumeric(fundTx.Amount),
		timeToPgTimestamptz(fundTx.TransactionDate),
		fundTx.Reason,
		fundTx.CreatedBy,
		timeToPgTimestamptz(fundTx.CreatedAt),
	)

	return err
}

const fundBalanceQuery = `
	SELECT COALESCE(SUM(amount), 0)
	FROM social_fund_transactions
	WHERE group_id = $1 AND cycle_id = $2`

// GetGroupBalance returns the fund balance of a group for one cycle.
func (r *SocialFundRepository) GetGroupBalance(ctx context.Context, groupID, cycleID string) (decimal.Decimal, error) {
	return r.balance(ctx, r.pool, groupID, cycleID)
}

// GetGroupBalanceTx returns the fund balance inside a transaction, so
// withdrawal checks see rows written earlier in the same meeting.
func (r *SocialFundRepository) GetGroupBalanceTx(ctx context.Context, tx usecase.Transaction, groupID, cycleID string) (decimal.Decimal, error) {
	return r.balance(ctx, txQuerier(tx), groupID, cycleID)
}

func (r *SocialFundRepository) balance(ctx context.Context, q querier, groupID, cycleID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := q.QueryRow(ctx, fundBalanceQuery, groupID, cycleID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ListByGroup lists fund transactions of a group and cycle, newest first.
func (r *SocialFundRepository) ListByGroup(ctx context.Context, groupID, cycleID string, limit, offset int) ([]*domain.SocialFundTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+fundColumns+` FROM social_fund_transactions WHERE group_id = $1 AND cycle_id = $2 ORDER BY transaction_date DESC, id LIMIT $3 OFFSET $4`,
		groupID, cycleID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFundTxs(rows)
}

func scanFundTxs(rows pgx.Rows) ([]*domain.SocialFundTransaction, error) {
	var txs []*domain.SocialFundTransaction

	for rows.Next() {
		var (
			fundTx          domain.SocialFundTransaction
			memberID        pgtype.Text
			meetingID       pgtype.Text
			txType          string
			amount          pgtype.Numeric
			transactionDate pgtype.Timestamptz
			createdAt       pgtype.Timestamptz
		)

		if err := rows.Scan(
			&fundTx.ID,
			&fundTx.GroupID,
			&fundTx.CycleID,
			&memberID,
			&meetingID,
			&txType,
			&amount,
			&transactionDate,
			&fundTx.Reason,
			&fundTx.CreatedBy,
			&createdAt,
		); err != nil {
			return nil, err
		}

		fundTx.MemberID = textToStringPtr(memberID)
		fundTx.MeetingID = textToStringPtr(meetingID)
		fundTx.Type = domain.SocialFundType(txType)
		fundTx.Amount = numericToDecimal(amount)
		fundTx.TransactionDate = transactionDate.Time
		fundTx.CreatedAt = createdAt.Time

		txs = append(txs, &fundTx)
	}

	return txs, rows.Err()
}
