package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Rows are append-only;
// there is no update or delete path.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, group_id, member_id, amount, source, transaction_date, description,
	meeting_id, loan_id, contra_id, created_by, created_at`

// Create creates one ledger leg within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.AccountTransaction) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO account_transactions (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.ID,
		entry.GroupID,
		stringPtrToText(entry.MemberID),
		decimalToNumeric(entry.Amount),
		string(entry.Source),
		timeToPgTimestamptz(entry.TransactionDate),
		entry.Description,
		stringPtrToText(entry.MeetingID),
		stringPtrToText(entry.LoanID),
		stringPtrToText(entry.ContraID),
		entry.CreatedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByMeeting lists the legs written for one meeting.
func (r *EntryRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.AccountTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM account_transactions WHERE meeting_id = $1 ORDER BY created_at, id`,
		meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByMember lists a member's legs, newest first.
func (r *EntryRepository) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*domain.AccountTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM account_transactions WHERE member_id = $1 ORDER BY transaction_date DESC, id LIMIT $2 OFFSET $3`,
		memberID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByGroup lists a group's legs, newest first.
func (r *EntryRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.AccountTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM account_transactions WHERE group_id = $1 ORDER BY transaction_date DESC, id LIMIT $2 OFFSET $3`,
		groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*domain.AccountTransaction, error) {
	var entries []*domain.AccountTransaction

	for rows.Next() {
		var (
			entry           domain.AccountTransaction
			memberID        pgtype.Text
			amount          pgtype.Numeric
			source          string
			transactionDate pgtype.Timestamptz
			meetingID       pgtype.Text
			loanID          pgtype.Text
			contraID        pgtype.Text
			createdAt       pgtype.Timestamptz
		)

		if err := rows.Scan(
			&entry.ID,
			&entry.GroupID,
			&memberID,
			&amount,
			&source,
			&transactionDate,
			&entry.Description,
			&meetingID,
			&loanID,
			&contraID,
			&entry.CreatedBy,
			&createdAt,
		); err != nil {
			return nil, err
		}

		entry.MemberID = textToStringPtr(memberID)
		entry.Amount = numericToDecimal(amount)
		entry.Source = domain.TransactionSource(source)
		entry.TransactionDate = transactionDate.Time
		entry.MeetingID = textToStringPtr(meetingID)
		entry.LoanID = textToStringPtr(loanID)
		entry.ContraID = textToStringPtr(contraID)
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
