package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// CycleRepository implements usecase.CycleRepository.
type CycleRepository struct {
	pool *pgxpool.Pool
}

// NewCycleRepository creates a new CycleRepository.
func NewCycleRepository(pool *pgxpool.Pool) *CycleRepository {
	return &CycleRepository{pool: pool}
}

const cycleColumns = `id, group_id, name, share_price, interest_rate, start_date, end_date, status, created_at`

// Create creates a new cycle.
func (r *CycleRepository) Create(ctx context.Context, cycle *domain.Cycle) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cycles (id, group_id, name, share_price, interest_rate, start_date, end_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		cycle.ID,
		cycle.GroupID,
		cycle.Name,
		decimalToNumeric(cycle.SharePrice),
		decimalToNumeric(cycle.InterestRate),
		timeToPgTimestamptz(cycle.StartDate),
		timeToPgTimestamptz(cycle.EndDate),
		string(cycle.Status),
		timeToPgTimestamptz(cycle.CreatedAt),
	)

	return err
}

// GetByID retrieves a cycle by ID.
func (r *CycleRepository) GetByID(ctx context.Context, id string) (*domain.Cycle, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE id = $1`, id)

	return scanCycleRow(row)
}

// GetByIDForUpdate retrieves a cycle with a FOR UPDATE lock. The lock
// serializes concurrent meeting processing for the same cycle.
func (r *CycleRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Cycle, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE id = $1 FOR UPDATE`, id)

	return scanCycleRow(row)
}

// ListByGroup lists the cycles of a group.
func (r *CycleRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Cycle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE group_id = $1 ORDER BY start_date DESC LIMIT $2 OFFSET $3`,
		groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []*domain.Cycle
	for rows.Next() {
		cycle, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}

	return cycles, rows.Err()
}

func scanCycleRow(row pgx.Row) (*domain.Cycle, error) {
	cycle, err := scanCycle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCycleNotFound
		}

		return nil, err
	}

	return cycle, nil
}

func scanCycle(row pgx.Row) (*domain.Cycle, error) {
	var (
		cycle        domain.Cycle
		sharePrice   pgtype.Numeric
		interestRate pgtype.Numeric
		startDate    pgtype.Timestamptz
		endDate      pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		status       string
	)

	if err := row.Scan(
		&cycle.ID,
		&cycle.GroupID,
		&cycle.Name,
		&sharePrice,
		&interestRate,
		&startDate,
		&endDate,
		&status,
		&createdAt,
	); err != nil {
		return nil, err
	}

	cycle.SharePrice = numericToDecimal(sharePrice)
	cycle.InterestRate = numericToDecimal(interestRate)
	cycle.StartDate = startDate.Time
	cycle.EndDate = endDate.Time
	cycle.Status = domain.CycleStatus(status)
	cycle.CreatedAt = createdAt.Time

	return &cycle, nil
}
