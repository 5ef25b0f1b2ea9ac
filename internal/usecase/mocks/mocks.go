package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// MockGroupRepository is a mock implementation of GroupRepository.
type MockGroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*domain.Group

	CreateFunc  func(ctx context.Context, group *domain.Group) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Group, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Group, error)
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups: make(map[string]*domain.Group),
	}
}

func (m *MockGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
	return nil
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, domain.ErrGroupNotFound
}

func (m *MockGroupRepository) List(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var groups []*domain.Group
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	return groups, nil
}

// MockCycleRepository is a mock implementation of CycleRepository.
type MockCycleRepository struct {
	mu     sync.RWMutex
	cycles map[string]*domain.Cycle

	CreateFunc           func(ctx context.Context, cycle *domain.Cycle) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Cycle, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Cycle, error)
	ListByGroupFunc      func(ctx context.Context, groupID string, limit, offset int) ([]*domain.Cycle, error)
}

func NewMockCycleRepository() *MockCycleRepository {
	return &MockCycleRepository{
		cycles: make(map[string]*domain.Cycle),
	}
}

func (m *MockCycleRepository) Create(ctx context.Context, cycle *domain.Cycle) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, cycle)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles[cycle.ID] = cycle
	return nil
}

func (m *MockCycleRepository) GetByID(ctx context.Context, id string) (*domain.Cycle, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.cycles[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCycleNotFound
}

func (m *MockCycleRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Cycle, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCycleRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Cycle, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cycles []*domain.Cycle
	for _, c := range m.cycles {
		if c.GroupID == groupID {
			cycles = append(cycles, c)
		}
	}
	return cycles, nil
}

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members map[string]*domain.Member

	CreateFunc      func(ctx context.Context, member *domain.Member) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Member, error)
	ListByGroupFunc func(ctx context.Context, groupID string, limit, offset int) ([]*domain.Member, error)
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		members: make(map[string]*domain.Member),
	}
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Member, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var members []*domain.Member
	for _, mem := range m.members {
		if mem.GroupID == groupID {
			members = append(members, mem)
		}
	}
	return members, nil
}

// MockMeetingRepository is a mock implementation of MeetingRepository.
type MockMeetingRepository struct {
	mu       sync.RWMutex
	meetings map[string]*domain.Meeting
	byLocal  map[string]string

	CreateFunc         func(ctx context.Context, meeting *domain.Meeting) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Meeting, error)
	GetByLocalIDFunc   func(ctx context.Context, localID string) (*domain.Meeting, error)
	UpdateStatusFunc   func(ctx context.Context, meeting *domain.Meeting) error
	UpdateStatusTxFunc func(ctx context.Context, tx usecase.Transaction, meeting *domain.Meeting) error
	ListByGroupFunc    func(ctx context.Context, groupID string, limit, offset int) ([]*domain.Meeting, error)
}

func NewMockMeetingRepository() *MockMeetingRepository {
	return &MockMeetingRepository{
		meetings: make(map[string]*domain.Meeting),
		byLocal:  make(map[string]string),
	}
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, meeting)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byLocal[meeting.LocalID]; ok {
		return domain.ErrDuplicateLocalID
	}
	cp := *meeting
	m.meetings[meeting.ID] = &cp
	m.byLocal[meeting.LocalID] = meeting.ID
	return nil
}

func (m *MockMeetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mt, ok := m.meetings[id]; ok {
		cp := *mt
		return &cp, nil
	}
	return nil, domain.ErrMeetingNotFound
}

func (m *MockMeetingRepository) GetByLocalID(ctx context.Context, localID string) (*domain.Meeting, error) {
	if m.GetByLocalIDFunc != nil {
		return m.GetByLocalIDFunc(ctx, localID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byLocal[localID]; ok {
		cp := *m.meetings[id]
		return &cp, nil
	}
	return nil, domain.ErrMeetingNotFound
}

func (m *MockMeetingRepository) UpdateStatus(ctx context.Context, meeting *domain.Meeting) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, meeting)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *meeting
	m.meetings[meeting.ID] = &cp
	return nil
}

func (m *MockMeetingRepository) UpdateStatusTx(ctx context.Context, tx usecase.Transaction, meeting *domain.Meeting) error {
	if m.UpdateStatusTxFunc != nil {
		return m.UpdateStatusTxFunc(ctx, tx, meeting)
	}
	return m.UpdateStatus(ctx, meeting)
}

func (m *MockMeetingRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Meeting, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var meetings []*domain.Meeting
	for _, mt := range m.meetings {
		if mt.GroupID == groupID {
			cp := *mt
			meetings = append(meetings, &cp)
		}
	}
	return meetings, nil
}

// MockEntryRepository is a mock implementation of EntryRepository. Entries
// are kept in insertion order.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.AccountTransaction

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.AccountTransaction) error
	ListByMeetingFunc func(ctx context.Context, meetingID string) ([]*domain.AccountTransaction, error)
	ListByMemberFunc  func(ctx context.Context, memberID string, limit, offset int) ([]*domain.AccountTransaction, error)
	ListByGroupFunc   func(ctx context.Context, groupID string, limit, offset int) ([]*domain.AccountTransaction, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.AccountTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.AccountTransaction, error) {
	if m.ListByMeetingFunc != nil {
		return m.ListByMeetingFunc(ctx, meetingID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AccountTransaction
	for _, e := range m.entries {
		if e.MeetingID != nil && *e.MeetingID == meetingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*domain.AccountTransaction, error) {
	if m.ListByMemberFunc != nil {
		return m.ListByMemberFunc(ctx, memberID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AccountTransaction
	for _, e := range m.entries {
		if e.MemberID != nil && *e.MemberID == memberID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.AccountTransaction, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AccountTransaction
	for _, e := range m.entries {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every stored entry.
func (m *MockEntryRepository) All() []*domain.AccountTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AccountTransaction, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockLedgerRepository is a mock implementation of LedgerRepository. By
// default it aggregates the entries of a linked MockEntryRepository.
type MockLedgerRepository struct {
	Entries *MockEntryRepository

	CheckConsistencyFunc func(ctx context.Context) (decimal.Decimal, map[domain.TransactionSource]decimal.Decimal, error)
}

func NewMockLedgerRepository(entries *MockEntryRepository) *MockLedgerRepository {
	return &MockLedgerRepository{Entries: entries}
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, map[domain.TransactionSource]decimal.Decimal, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	total := decimal.Zero
	bySource := make(map[domain.TransactionSource]decimal.Decimal)
	if m.Entries != nil {
		for _, e := range m.Entries.All() {
			total = total.Add(e.Amount)
			bySource[e.Source] = bySource[e.Source].Add(e.Amount)
		}
	}
	return total, bySource, nil
}

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, amountPaid, balance decimal.Decimal, status domain.LoanStatus, updatedAt time.Time) error
	UpdateStatusFunc     func(ctx context.Context, id string, status domain.LoanStatus, updatedAt time.Time) error
	ListByCycleFunc      func(ctx context.Context, cycleID string, limit, offset int) ([]*domain.Loan, error)
	ListByBorrowerFunc   func(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error)
	ListDueBeforeFunc    func(ctx context.Context, dueDate time.Time) ([]*domain.Loan, error)
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		loans: make(map[string]*domain.Loan),
	}
}

func (m *MockLoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *loan
	m.loans[loan.ID] = &cp
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.loans[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockLoanRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, amountPaid, balance decimal.Decimal, status domain.LoanStatus, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, amountPaid, balance, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.loans[id]
	if !ok {
		return domain.ErrLoanNotFound
	}
	l.AmountPaid = amountPaid
	l.Balance = balance
	l.Status = status
	l.UpdatedAt = updatedAt
	return nil
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, id string, status domain.LoanStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.loans[id]
	if !ok {
		return domain.ErrLoanNotFound
	}
	l.Status = status
	l.UpdatedAt = updatedAt
	return nil
}

func (m *MockLoanRepository) ListByCycle(ctx context.Context, cycleID string, limit, offset int) ([]*domain.Loan, error) {
	if m.ListByCycleFunc != nil {
		return m.ListByCycleFunc(ctx, cycleID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, l := range m.loans {
		if l.CycleID == cycleID {
			cp := *l
			loans = append(loans, &cp)
		}
	}
	return loans, nil
}

func (m *MockLoanRepository) ListByBorrower(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error) {
	if m.ListByBorrowerFunc != nil {
		return m.ListByBorrowerFunc(ctx, borrowerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, l := range m.loans {
		if l.BorrowerID == borrowerID {
			cp := *l
			loans = append(loans, &cp)
		}
	}
	return loans, nil
}

func (m *MockLoanRepository) ListDueBefore(ctx context.Context, dueDate time.Time) ([]*domain.Loan, error) {
	if m.ListDueBeforeFunc != nil {
		return m.ListDueBeforeFunc(ctx, dueDate)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, l := range m.loans {
		if l.Status == domain.LoanActive && l.DueDate.Before(dueDate) {
			cp := *l
			loans = append(loans, &cp)
		}
	}
	return loans, nil
}

// MockLoanTransactionRepository is a mock implementation of
// LoanTransactionRepository.
type MockLoanTransactionRepository struct {
	mu  sync.RWMutex
	txs []*domain.LoanTransaction

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, loanTx *domain.LoanTransaction) error
	ListByLoanFunc func(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error)
}

func NewMockLoanTransactionRepository() *MockLoanTransactionRepository {
	return &MockLoanTransactionRepository{}
}

func (m *MockLoanTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, loanTx *domain.LoanTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, loanTx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, loanTx)
	return nil
}

func (m *MockLoanTransactionRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error) {
	if m.ListByLoanFunc != nil {
		return m.ListByLoanFunc(ctx, loanID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LoanTransaction
	for _, t := range m.txs {
		if t.LoanID == loanID {
			out = append(out, t)
		}
	}
	return out, nil
}

// MockShareRepository is a mock implementation of ShareRepository.
type MockShareRepository struct {
	mu     sync.RWMutex
	shares []*domain.SharePurchase

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, share *domain.SharePurchase) error
	ListByCycleFunc    func(ctx context.Context, cycleID string, limit, offset int) ([]*domain.SharePurchase, error)
	ListByInvestorFunc func(ctx context.Context, investorID string, limit, offset int) ([]*domain.SharePurchase, error)
}

func NewMockShareRepository() *MockShareRepository {
	return &MockShareRepository{}
}

func (m *MockShareRepository) Create(ctx context.Context, tx usecase.Transaction, share *domain.SharePurchase) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, share)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shares = append(m.shares, share)
	return nil
}

func (m *MockShareRepository) ListByCycle(ctx context.Context, cycleID string, limit, offset int) ([]*domain.SharePurchase, error) {
	if m.ListByCycleFunc != nil {
		return m.ListByCycleFunc(ctx, cycleID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.SharePurchase
	for _, s := range m.shares {
		if s.CycleID == cycleID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockShareRepository) ListByInvestor(ctx context.Context, investorID string, limit, offset int) ([]*domain.SharePurchase, error) {
	if m.ListByInvestorFunc != nil {
		return m.ListByInvestorFunc(ctx, investorID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.SharePurchase
	for _, s := range m.shares {
		if s.InvestorID == investorID {
			out = append(out, s)
		}
	}
	return out, nil
}

// MockSocialFundRepository is a mock implementation of SocialFundRepository.
// The default balance is the plain sum of stored amounts.
type MockSocialFundRepository struct {
	mu  sync.RWMutex
	txs []*domain.SocialFundTransaction

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, fundTx *domain.SocialFundTransaction) error
	GetGroupBalanceFunc   func(ctx context.Context, groupID, cycleID string) (decimal.Decimal, error)
	GetGroupBalanceTxFunc func(ctx context.Context, tx usecase.Transaction, groupID, cycleID string) (decimal.Decimal, error)
	ListByGroupFunc       func(ctx context.Context, groupID, cycleID string, limit, offset int) ([]*domain.SocialFundTransaction, error)
}

func NewMockSocialFundRepository() *MockSocialFundRepository {
	return &MockSocialFundRepository{}
}

func (m *MockSocialFundRepository) Create(ctx context.Context, tx usecase.Transaction, fundTx *domain.SocialFundTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, fundTx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, fundTx)
	return nil
}

func (m *MockSocialFundRepository) GetGroupBalance(ctx context.Context, groupID, cycleID string) (decimal.Decimal, error) {
	if m.GetGroupBalanceFunc != nil {
		return m.GetGroupBalanceFunc(ctx, groupID, cycleID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance := decimal.Zero
	for _, t := range m.txs {
		if t.GroupID == groupID && t.CycleID == cycleID {
			balance = balance.Add(t.Amount)
		}
	}
	return balance, nil
}

func (m *MockSocialFundRepository) GetGroupBalanceTx(ctx context.Context, tx usecase.Transaction, groupID, cycleID string) (decimal.Decimal, error) {
	if m.GetGroupBalanceTxFunc != nil {
		return m.GetGroupBalanceTxFunc(ctx, tx, groupID, cycleID)
	}
	return m.GetGroupBalance(ctx, groupID, cycleID)
}

func (m *MockSocialFundRepository) ListByGroup(ctx context.Context, groupID, cycleID string, limit, offset int) ([]*domain.SocialFundTransaction, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID, cycleID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.SocialFundTransaction
	for _, t := range m.txs {
		if t.GroupID == groupID && t.CycleID == cycleID {
			out = append(out, t)
		}
	}
	return out, nil
}

// MockAttendanceRepository is a mock implementation of AttendanceRepository.
type MockAttendanceRepository struct {
	mu   sync.RWMutex
	rows []*domain.Attendance

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, attendance *domain.Attendance) error
	ListByMeetingFunc func(ctx context.Context, meetingID string) ([]*domain.Attendance, error)
}

func NewMockAttendanceRepository() *MockAttendanceRepository {
	return &MockAttendanceRepository{}
}

func (m *MockAttendanceRepository) Create(ctx context.Context, tx usecase.Transaction, attendance *domain.Attendance) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, attendance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, attendance)
	return nil
}

func (m *MockAttendanceRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Attendance, error) {
	if m.ListByMeetingFunc != nil {
		return m.ListByMeetingFunc(ctx, meetingID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Attendance
	for _, a := range m.rows {
		if a.MeetingID == meetingID {
			out = append(out, a)
		}
	}
	return out, nil
}

// MockActionPlanRepository is a mock implementation of ActionPlanRepository.
type MockActionPlanRepository struct {
	mu    sync.RWMutex
	plans []*domain.ActionPlan

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, plan *domain.ActionPlan) error
	ListByGroupFunc func(ctx context.Context, groupID string, limit, offset int) ([]*domain.ActionPlan, error)
}

func NewMockActionPlanRepository() *MockActionPlanRepository {
	return &MockActionPlanRepository{}
}

func (m *MockActionPlanRepository) Create(ctx context.Context, tx usecase.Transaction, plan *domain.ActionPlan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, plan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, plan)
	return nil
}

func (m *MockActionPlanRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.ActionPlan, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ActionPlan
	for _, p := range m.plans {
		if p.GroupID == groupID {
			out = append(out, p)
		}
	}
	return out, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregateFunc  func(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.PublishedAt = &publishedAt
			e.Published = true
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	if m.GetByAggregateFunc != nil {
		return m.GetByAggregateFunc(ctx, aggregateType, aggregateID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns every stored event.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc          func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc        func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc            func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceIDFunc func(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	if m.GetByResourceIDFunc != nil {
		return m.GetByResourceIDFunc(ctx, resourceType, resourceID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// Logs returns every stored audit log.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// Transactions handed out are recorded for later inspection.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Transactions returns every transaction handed out.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockTransaction, len(m.txs))
	copy(out, m.txs)
	return out
}

// MockIDGenerator is a mock implementation of IDGenerator producing
// deterministic sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%06d", m.counter)
}

// MockRetrier is a mock implementation of Retrier that runs the operation
// exactly once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockCache is a mock implementation of Cache. TTLs are ignored.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
