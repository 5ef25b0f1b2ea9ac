package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
)

// GroupRepository implements usecase.GroupRepository.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// Create creates a new group.
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO groups (id, name, location, created_at)
		VALUES ($1, $2, $3, $4)`,
		group.ID, group.Name, group.Location, timeToPgTimestamptz(group.CreatedAt))

	return err
}

// GetByID retrieves a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, location, created_at
		FROM groups
		WHERE id = $1`, id)

	group, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}

		return nil, err
	}

	return group, nil
}

// List lists groups with pagination.
func (r *GroupRepository) List(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, location, created_at
		FROM groups
		ORDER BY created_at
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var (
		group     domain.Group
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&group.ID, &group.Name, &group.Location, &createdAt); err != nil {
		return nil, err
	}

	group.CreatedAt = createdAt.Time

	return &group, nil
}
