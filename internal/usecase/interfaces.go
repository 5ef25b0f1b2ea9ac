package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
)

// GroupRepository defines data access for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Group, error)
}

// CycleRepository defines data access for savings cycles.
type CycleRepository interface {
	Create(ctx context.Context, cycle *domain.Cycle) error
	GetByID(ctx context.Context, id string) (*domain.Cycle, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Cycle, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Cycle, error)
}

// MemberRepository defines data access for group members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Member, error)
}

// MeetingRepository defines data access for submitted meetings.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
	GetByLocalID(ctx context.Context, localID string) (*domain.Meeting, error)
	UpdateStatus(ctx context.Context, meeting *domain.Meeting) error
	UpdateStatusTx(ctx context.Context, tx Transaction, meeting *domain.Meeting) error
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Meeting, error)
}

// EntryRepository defines data access for account transactions (the
// double-entry ledger legs).
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.AccountTransaction) error
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.AccountTransaction, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*domain.AccountTransaction, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.AccountTransaction, error)
}

// LedgerRepository defines ledger-wide aggregation queries.
type LedgerRepository interface {
	// CheckConsistency returns the sum of all ledger legs (must be zero)
	// and the per-source leg sums (each must be zero).
	CheckConsistency(ctx context.Context) (total decimal.Decimal, bySource map[domain.TransactionSource]decimal.Decimal, err error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, amountPaid, balance decimal.Decimal, status domain.LoanStatus, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.LoanStatus, updatedAt time.Time) error
	ListByCycle(ctx context.Context, cycleID string, limit, offset int) ([]*domain.Loan, error)
	ListByBorrower(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error)
	ListDueBefore(ctx context.Context, dueDate time.Time) ([]*domain.Loan, error)
}

// LoanTransactionRepository defines data access for loan transaction logs.
type LoanTransactionRepository interface {
	Create(ctx context.Context, tx Transaction, loanTx *domain.LoanTransaction) error
	ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error)
}

// ShareRepository defines data access for the share register.
type ShareRepository interface {
	Create(ctx context.Context, tx Transaction, share *domain.SharePurchase) error
	ListByCycle(ctx context.Context, cycleID string, limit, offset int) ([]*domain.SharePurchase, error)
	ListByInvestor(ctx context.Context, investorID string, limit, offset int) ([]*domain.SharePurchase, error)
}

// SocialFundRepository defines data access for the welfare fund ledger.
type SocialFundRepository interface {
	Create(ctx context.Context, tx Transaction, fundTx *domain.SocialFundTransaction) error
	GetGroupBalance(ctx context.Context, groupID, cycleID string) (decimal.Decimal, error)
	GetGroupBalanceTx(ctx context.Context, tx Transaction, groupID, cycleID string) (decimal.Decimal, error)
	ListByGroup(ctx context.Context, groupID, cycleID string, limit, offset int) ([]*domain.SocialFundTransaction, error)
}

// AttendanceRepository defines data access for meeting attendance.
type AttendanceRepository interface {
	Create(ctx context.Context, tx Transaction, attendance *domain.Attendance) error
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Attendance, error)
}

// ActionPlanRepository defines data access for group action plans.
type ActionPlanRepository interface {
	Create(ctx context.Context, tx Transaction, plan *domain.ActionPlan) error
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.ActionPlan, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient database failures
// (deadlocks, serialization conflicts).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
