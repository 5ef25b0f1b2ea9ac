package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vslaledger/internal/domain"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Create creates a new member.
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO members (id, group_id, name, phone, joined_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		member.ID,
		member.GroupID,
		member.Name,
		member.Phone,
		timeToPgTimestamptz(member.JoinedAt),
		timeToPgTimestamptz(member.CreatedAt),
	)

	return err
}

// GetByID retrieves a member by ID.
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, group_id, name, phone, joined_at, created_at
		FROM members
		WHERE id = $1`, id)

	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}

		return nil, err
	}

	return member, nil
}

// ListByGroup lists the members of a group.
func (r *MemberRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, group_id, name, phone, joined_at, created_at
		FROM members
		WHERE group_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3`,
		groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var (
		member    domain.Member
		joinedAt  pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(
		&member.ID,
		&member.GroupID,
		&member.Name,
		&member.Phone,
		&joinedAt,
		&createdAt,
	); err != nil {
		return nil, err
	}

	member.JoinedAt = joinedAt.Time
	member.CreatedAt = createdAt.Time

	return &member, nil
}
