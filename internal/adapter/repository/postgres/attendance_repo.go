package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// AttendanceRepository implements usecase.AttendanceRepository.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Create creates an attendance row within a transaction.
func (r *AttendanceRepository) Create(ctx context.Context, tx usecase.Transaction, attendance *domain.Attendance) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO attendance (id, meeting_id, member_id, present, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		attendance.ID,
		attendance.MeetingID,
		attendance.MemberID,
		attendance.Present,
		attendance.Note,
		timeToPgTimestamptz(attendance.CreatedAt),
	)

	return err
}

// ListByMeeting lists the attendance rows of a meeting.
func (r *AttendanceRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Attendance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, meeting_id, member_id, present, note, created_at FROM attendance WHERE meeting_id = $1 ORDER BY created_at, id`,
		meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.Attendance

	for rows.Next() {
		var (
			att       domain.Attendance
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&att.ID, &att.MeetingID, &att.MemberID, &att.Present, &att.Note, &createdAt); err != nil {
			return nil, err
		}

		att.CreatedAt = createdAt.Time
		records = append(records, &att)
	}

	return records, rows.Err()
}
