package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// MeetingRepository implements usecase.MeetingRepository. The batched
// sub-arrays of a meeting are stored as JSONB alongside the relational
// columns, preserving the submitted payload verbatim.
type MeetingRepository struct {
	pool *pgxpool.Pool
}

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository(pool *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

const meetingColumns = `id, local_id, cycle_id, group_id, meeting_date, meeting_number,
	attendance, transactions, loans, repayments, share_purchases, social_fund, action_plans,
	total_savings, total_shares_sold, processing_status, has_errors, has_warnings,
	errors, warnings, created_by, created_at, updated_at, processed_at`

// Create creates a new meeting.
func (r *MeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	attendance, err := marshalJSON(meeting.Attendance)
	if err != nil {
		return err
	}
	transactions, err := marshalJSON(meeting.Transactions)
	if err != nil {
		return err
	}
	loans, err := marshalJSON(meeting.Loans)
	if err != nil {
		return err
	}
	repayments, err := marshalJSON(meeting.Repayments)
	if err != nil {
		return err
	}
	sharePurchases, err := marshalJSON(meeting.SharePurchases)
	if err != nil {
		return err
	}
	socialFund, err := marshalJSON(meeting.SocialFund)
	if err != nil {
		return err
	}
	actionPlans, err := marshalJSON(meeting.ActionPlans)
	if err != nil {
		return err
	}
	errs, err := marshalJSON(meeting.Errors)
	if err != nil {
		return err
	}
	warnings, err := marshalJSON(meeting.Warnings)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO meetings (`+meetingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		meeting.ID,
		meeting.LocalID,
		meeting.CycleID,
		meeting.GroupID,
		timeToPgTimestamptz(meeting.MeetingDate),
		meeting.MeetingNumber,
		attendance,
		transactions,
		loans,
		repayments,
		sharePurchases,
		socialFund,
		actionPlans,
		decimalToNumeric(meeting.TotalSavings),
		meeting.TotalSharesSold,
		string(meeting.ProcessingStatus),
		meeting.HasErrors,
		meeting.HasWarnings,
		errs,
		warnings,
		meeting.CreatedBy,
		timeToPgTimestamptz(meeting.CreatedAt),
		timeToPgTimestamptz(meeting.UpdatedAt),
		timePtrToPgTimestamptz(meeting.ProcessedAt),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateLocalID
	}

	return err
}

// GetByID retrieves a meeting by ID.
func (r *MeetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)

	return scanMeeting(row)
}

// GetByLocalID retrieves a meeting by the client's local idempotency key.
func (r *MeetingRepository) GetByLocalID(ctx context.Context, localID string) (*domain.Meeting, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE local_id = $1`, localID)

	return scanMeeting(row)
}

// UpdateStatus persists processing status and issue lists.
func (r *MeetingRepository) UpdateStatus(ctx context.Context, meeting *domain.Meeting) error {
	return r.updateStatus(ctx, r.pool, meeting)
}

// UpdateStatusTx persists processing status within a transaction.
func (r *MeetingRepository) UpdateStatusTx(ctx context.Context, tx usecase.Transaction, meeting *domain.Meeting) error {
	return r.updateStatus(ctx, txQuerier(tx), meeting)
}

func (r *MeetingRepository) updateStatus(ctx context.Context, q querier, meeting *domain.Meeting) error {
	errs, err := marshalJSON(meeting.Errors)
	if err != nil {
		return err
	}
	warnings, err := marshalJSON(meeting.Warnings)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		UPDATE meetings
		SET processing_status = $2,
		    has_errors = $3,
		    has_warnings = $4,
		    errors = $5,
		    warnings = $6,
		    updated_at = $7,
		    processed_at = $8
		WHERE id = $1`,
		meeting.ID,
		string(meeting.ProcessingStatus),
		meeting.HasErrors,
		meeting.HasWarnings,
		errs,
		warnings,
		timeToPgTimestamptz(meeting.UpdatedAt),
		timePtrToPgTimestamptz(meeting.ProcessedAt),
	)

	return err
}

// ListByGroup lists the meetings of a group, newest first.
func (r *MeetingRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Meeting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE group_id = $1 ORDER BY meeting_date DESC LIMIT $2 OFFSET $3`,
		groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []*domain.Meeting
	for rows.Next() {
		meeting, err := scanMeetingRow(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}

	return meetings, rows.Err()
}

func scanMeeting(row pgx.Row) (*domain.Meeting, error) {
	meeting, err := scanMeetingRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMeetingNotFound
		}

		return nil, err
	}

	return meeting, nil
}

func scanMeetingRow(row pgx.Row) (*domain.Meeting, error) {
	var (
		meeting        domain.Meeting
		meetingDate    pgtype.Timestamptz
		attendance     []byte
		transactions   []byte
		loans          []byte
		repayments     []byte
		sharePurchases []byte
		socialFund     []byte
		actionPlans    []byte
		totalSavings   pgtype.Numeric
		status         string
		errs           []byte
		warnings       []byte
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
		processedAt    pgtype.Timestamptz
	)

	if err := row.Scan(
		&meeting.ID,
		&meeting.LocalID,
		&meeting.CycleID,
		&meeting.GroupID,
		&meetingDate,
		&meeting.MeetingNumber,
		&attendance,
		&transactions,
		&loans,
		&repayments,
		&sharePurchases,
		&socialFund,
		&actionPlans,
		&totalSavings,
		&meeting.TotalSharesSold,
		&status,
		&meeting.HasErrors,
		&meeting.HasWarnings,
		&errs,
		&warnings,
		&meeting.CreatedBy,
		&createdAt,
		&updatedAt,
		&processedAt,
	); err != nil {
		return nil, err
	}

	if err := unmarshalJSON(attendance, &meeting.Attendance); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(transactions, &meeting.Transactions); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(loans, &meeting.Loans); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(repayments, &meeting.Repayments); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(sharePurchases, &meeting.SharePurchases); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(socialFund, &meeting.SocialFund); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(actionPlans, &meeting.ActionPlans); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(errs, &meeting.Errors); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(warnings, &meeting.Warnings); err != nil {
		return nil, err
	}

	meeting.MeetingDate = meetingDate.Time
	meeting.TotalSavings = numericToDecimal(totalSavings)
	meeting.ProcessingStatus = domain.ProcessingStatus(status)
	meeting.CreatedAt = createdAt.Time
	meeting.UpdatedAt = updatedAt.Time
	meeting.ProcessedAt = pgTimestamptzToTimePtr(processedAt)

	return &meeting, nil
}
