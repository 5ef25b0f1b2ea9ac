package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
)

// GroupUseCase manages groups, their savings cycles and members.
type GroupUseCase struct {
	groupRepo  GroupRepository
	cycleRepo  CycleRepository
	memberRepo MemberRepository
	idGen      IDGenerator
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(groupRepo GroupRepository, cycleRepo CycleRepository, memberRepo MemberRepository, idGen IDGenerator) *GroupUseCase {
	return &GroupUseCase{
		groupRepo:  groupRepo,
		cycleRepo:  cycleRepo,
		memberRepo: memberRepo,
		idGen:      idGen,
	}
}

// CreateGroup registers a new savings group.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, name, location string) (*domain.Group, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	group := &domain.Group{
		ID:        uc.idGen.Generate(),
		Name:      name,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// GetGroup retrieves a group by ID.
func (uc *GroupUseCase) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return uc.groupRepo.GetByID(ctx, id)
}

// ListGroups lists registered groups.
func (uc *GroupUseCase) ListGroups(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.groupRepo.List(ctx, limit, offset)
}

// CreateCycleInput represents input for starting a savings cycle.
type CreateCycleInput struct {
	GroupID      string
	Name         string
	SharePrice   decimal.Decimal
	InterestRate decimal.Decimal
	StartDate    time.Time
	EndDate      time.Time
}

// CreateCycle starts a new savings cycle for a group.
func (uc *GroupUseCase) CreateCycle(ctx context.Context, input CreateCycleInput) (*domain.Cycle, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.SharePrice); err != nil {
		return nil, err
	}

	if _, err := uc.groupRepo.GetByID(ctx, input.GroupID); err != nil {
		return nil, err
	}

	start := input.StartDate
	if start.IsZero() {
		start = time.Now().UTC()
	}

	cycle := &domain.Cycle{
		ID:           uc.idGen.Generate(),
		GroupID:      input.GroupID,
		Name:         input.Name,
		SharePrice:   input.SharePrice,
		InterestRate: input.InterestRate,
		StartDate:    start,
		EndDate:      input.EndDate,
		Status:       domain.CycleActive,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.cycleRepo.Create(ctx, cycle); err != nil {
		return nil, err
	}

	return cycle, nil
}

// GetCycle retrieves a cycle by ID.
func (uc *GroupUseCase) GetCycle(ctx context.Context, id string) (*domain.Cycle, error) {
	return uc.cycleRepo.GetByID(ctx, id)
}

// ListCycles lists the cycles of a group.
func (uc *GroupUseCase) ListCycles(ctx context.Context, groupID string, limit, offset int) ([]*domain.Cycle, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.cycleRepo.ListByGroup(ctx, groupID, limit, offset)
}

// AddMember registers a member in a group.
func (uc *GroupUseCase) AddMember(ctx context.Context, groupID, name, phone string) (*domain.Member, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member := &domain.Member{
		ID:        uc.idGen.Generate(),
		GroupID:   groupID,
		Name:      name,
		Phone:     phone,
		JoinedAt:  now,
		CreatedAt: now,
	}

	if err := uc.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// GetMember retrieves a member by ID.
func (uc *GroupUseCase) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	return uc.memberRepo.GetByID(ctx, id)
}

// ListMembers lists the members of a group.
func (uc *GroupUseCase) ListMembers(ctx context.Context, groupID string, limit, offset int) ([]*domain.Member, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.memberRepo.ListByGroup(ctx, groupID, limit, offset)
}
