package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessingStatus is the state machine of a submitted meeting.
// It only ever moves pending -> completed or pending -> failed.
type ProcessingStatus string

const (
	ProcessingPending   ProcessingStatus = "pending"
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingFailed    ProcessingStatus = "failed"
)

// Issue types recorded on a meeting.
const (
	IssueCycleNotFound         = "cycle_not_found"
	IssueGroupMismatch         = "group_mismatch"
	IssueMalformedPayload      = "malformed_payload"
	IssuePaymentExceedsBalance = "payment_exceeds_balance"
	IssueMemberNotFound        = "member_not_found"
	IssueInvestorNotFound      = "investor_not_found"
	IssueLoanNotFound          = "loan_not_found"
	IssueLoanCycleMismatch     = "loan_cycle_mismatch"
	IssueInvalidAmount         = "invalid_amount"
	IssueInsufficientFund      = "insufficient_social_fund"
	IssueActionPlansDisabled   = "action_plans_disabled"
	IssueInternal              = "internal_error"
)

// Issue is one structured error or warning attached to a meeting.
type Issue struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ProcessingResult is what the processor hands back to the submission layer.
type ProcessingResult struct {
	Success  bool    `json:"success"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// AttendanceRecord marks one member's presence at a meeting.
type AttendanceRecord struct {
	MemberID string `json:"member_id"`
	Present  bool   `json:"present"`
	Note     string `json:"note,omitempty"`
}

// MeetingTransaction is one ad-hoc savings, fine or other cash movement
// captured during the meeting.
type MeetingTransaction struct {
	MemberID    string            `json:"member_id"`
	Amount      decimal.Decimal   `json:"amount"`
	Source      TransactionSource `json:"source"`
	Description string            `json:"description,omitempty"`
}

// LoanApplication is one new loan to disburse at the meeting.
type LoanApplication struct {
	BorrowerID     string          `json:"borrower_id"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	DurationMonths int             `json:"duration_months"`
	Purpose        string          `json:"purpose,omitempty"`
}

// LoanRepaymentLine is one repayment against an existing loan.
type LoanRepaymentLine struct {
	LoanID string          `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
}

// SharePurchaseLine is one investor's share purchase at the meeting.
type SharePurchaseLine struct {
	InvestorID     string          `json:"investor_id"`
	NumberOfShares int64           `json:"number_of_shares"`
	SharePrice     decimal.Decimal `json:"share_price"`
}

// SocialFundLine is one welfare fund movement. Amount is a positive
// magnitude; Type decides the stored sign.
type SocialFundLine struct {
	MemberID *string         `json:"member_id,omitempty"`
	Type     SocialFundType  `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason,omitempty"`
}

// ActionPlanKind distinguishes review of previous plans from new ones.
type ActionPlanKind string

const (
	ActionPlanPrevious ActionPlanKind = "previous"
	ActionPlanUpcoming ActionPlanKind = "upcoming"
)

// ActionPlanLine is one group action plan item captured at the meeting.
type ActionPlanLine struct {
	Kind        ActionPlanKind `json:"kind"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Status      string         `json:"status,omitempty"`
}

// Meeting is the unit of work submitted from the field: one offline-captured
// group meeting with all its batched sub-arrays. LocalID is the mobile
// client's idempotency key for resubmission.
type Meeting struct {
	ID              string
	LocalID         string
	CycleID         string
	GroupID         string
	MeetingDate     time.Time
	MeetingNumber   int
	Attendance      []AttendanceRecord
	Transactions    []MeetingTransaction
	Loans           []LoanApplication
	Repayments      []LoanRepaymentLine
	SharePurchases  []SharePurchaseLine
	SocialFund      []SocialFundLine
	ActionPlans     []ActionPlanLine
	TotalSavings    decimal.Decimal
	TotalSharesSold int64

	ProcessingStatus ProcessingStatus
	HasErrors        bool
	HasWarnings      bool
	Errors           []Issue
	Warnings         []Issue

	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time
}

// Validate checks the structural shape of a submitted meeting.
func (m *Meeting) Validate() error {
	if m.LocalID == "" || m.CycleID == "" || m.GroupID == "" {
		return ErrMalformedMeeting
	}

	if m.MeetingDate.IsZero() {
		return ErrMalformedMeeting
	}

	return nil
}

// AddError appends a structural error and marks the meeting.
func (m *Meeting) AddError(typ, message string) {
	m.Errors = append(m.Errors, Issue{Type: typ, Message: message})
	m.HasErrors = true
}

// AddWarning appends an item-level warning and marks the meeting.
func (m *Meeting) AddWarning(typ, message string) {
	m.Warnings = append(m.Warnings, Issue{Type: typ, Message: message})
	m.HasWarnings = true
}

// Result builds the processing result from the accumulated issue lists.
func (m *Meeting) Result() *ProcessingResult {
	return &ProcessingResult{
		Success:  m.ProcessingStatus == ProcessingCompleted,
		Errors:   m.Errors,
		Warnings: m.Warnings,
	}
}
