package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// ActionPlanRepository implements usecase.ActionPlanRepository.
type ActionPlanRepository struct {
	pool *pgxpool.Pool
}

// NewActionPlanRepository creates a new ActionPlanRepository.
func NewActionPlanRepository(pool *pgxpool.Pool) *ActionPlanRepository {
	return &ActionPlanRepository{pool: pool}
}

const actionPlanColumns = `id, group_id, meeting_id, kind, title, description, due_date, status, created_at`

// Create creates an action plan row within a transaction.
func (r *ActionPlanRepository) Create(ctx context.Context, tx usecase.Transaction, plan *domain.ActionPlan) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO action_plans (`+actionPlanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		plan.ID,
		plan.GroupID,
		plan.MeetingID,
		string(plan.Kind),
		plan.Title,
		plan.Description,
		timePtrToPgTimestamptz(plan.DueDate),
		plan.Status,
		timeToPgTimestamptz(plan.CreatedAt),
	)

	return err
}

// ListByGroup lists the action plans of a group, newest first.
func (r *ActionPlanRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.ActionPlan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+actionPlanColumns+` FROM action_plans WHERE group_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.ActionPlan

	for rows.Next() {
		var (
			plan      domain.ActionPlan
			kind      string
			dueDate   pgtype.Timestamptz
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(
			&plan.ID,
			&plan.GroupID,
			&plan.MeetingID,
			&kind,
			&plan.Title,
			&plan.Description,
			&dueDate,
			&plan.Status,
			&createdAt,
		); err != nil {
			return nil, err
		}

		plan.Kind = domain.ActionPlanKind(kind)
		plan.DueDate = pgTimestamptzToTimePtr(dueDate)
		plan.CreatedAt = createdAt.Time
		plans = append(plans, &plan)
	}

	return plans, rows.Err()
}
