package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/usecase"
)

// SubmitMeetingRequest is the batched meeting payload captured offline on
// the mobile client. LocalID is the client's idempotency key.
type SubmitMeetingRequest struct {
	LocalID         string                      `json:"local_id"`
	CycleID         string                      `json:"cycle_id"`
	GroupID         string                      `json:"group_id"`
	MeetingDate     time.Time                   `json:"meeting_date"`
	MeetingNumber   int                         `json:"meeting_number"`
	Attendance      []domain.AttendanceRecord   `json:"attendance,omitempty"`
	Transactions    []domain.MeetingTransaction `json:"transactions,omitempty"`
	Loans           []domain.LoanApplication    `json:"loans,omitempty"`
	Repayments      []domain.LoanRepaymentLine  `json:"repayments,omitempty"`
	SharePurchases  []domain.SharePurchaseLine  `json:"share_purchases,omitempty"`
	SocialFund      []domain.SocialFundLine     `json:"social_fund,omitempty"`
	ActionPlans     []domain.ActionPlanLine     `json:"action_plans,omitempty"`
	TotalSavings    decimal.Decimal             `json:"total_savings"`
	TotalSharesSold int64                       `json:"total_shares_sold"`
}

// ToDomain converts the payload to a domain meeting.
func (r *SubmitMeetingRequest) ToDomain() *domain.Meeting {
	return &domain.Meeting{
		LocalID:         r.LocalID,
		CycleID:         r.CycleID,
		GroupID:         r.GroupID,
		MeetingDate:     r.MeetingDate,
		MeetingNumber:   r.MeetingNumber,
		Attendance:      r.Attendance,
		Transactions:    r.Transactions,
		Loans:           r.Loans,
		Repayments:      r.Repayments,
		SharePurchases:  r.SharePurchases,
		SocialFund:      r.SocialFund,
		ActionPlans:     r.ActionPlans,
		TotalSavings:    r.TotalSavings,
		TotalSharesSold: r.TotalSharesSold,
	}
}

// DisburseLoanRequest represents a request to disburse a standalone loan.
type DisburseLoanRequest struct {
	CycleID          string          `json:"cycle_id"`
	BorrowerID       string          `json:"borrower_id"`
	Principal        decimal.Decimal `json:"principal"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	DurationMonths   int             `json:"duration_months"`
	DisbursementDate time.Time       `json:"disbursement_date"`
	Purpose          string          `json:"purpose,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DisburseLoanRequest) ToUseCaseInput(actorID string) usecase.DisburseLoanInput {
	return usecase.DisburseLoanInput{
		CycleID:          r.CycleID,
		BorrowerID:       r.BorrowerID,
		Principal:        r.Principal,
		InterestRate:     r.InterestRate,
		DurationMonths:   r.DurationMonths,
		DisbursementDate: r.DisbursementDate,
		Purpose:          r.Purpose,
		ActorID:          actorID,
	}
}

// RecordRepaymentRequest represents a repayment against a loan.
type RecordRepaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordRepaymentRequest) ToUseCaseInput(loanID, actorID string) usecase.RecordRepaymentInput {
	return usecase.RecordRepaymentInput{
		LoanID:          loanID,
		Amount:          r.Amount,
		TransactionDate: r.TransactionDate,
		ActorID:         actorID,
	}
}

// RecordPenaltyRequest represents a penalty applied to a loan. Amount is a
// positive magnitude.
type RecordPenaltyRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Reason          string          `json:"reason,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPenaltyRequest) ToUseCaseInput(loanID, actorID string) usecase.RecordPenaltyInput {
	return usecase.RecordPenaltyInput{
		LoanID:          loanID,
		Amount:          r.Amount,
		TransactionDate: r.TransactionDate,
		Reason:          r.Reason,
		ActorID:         actorID,
	}
}

// PurchaseSharesRequest represents an investor share purchase. A zero
// share price means the cycle's agreed price.
type PurchaseSharesRequest struct {
	CycleID        string          `json:"cycle_id"`
	InvestorID     string          `json:"investor_id"`
	NumberOfShares int64           `json:"number_of_shares"`
	SharePrice     decimal.Decimal `json:"share_price,omitempty"`
	PurchaseDate   time.Time       `json:"purchase_date"`
}

// ToUseCaseInput converts to use case input.
func (r *PurchaseSharesRequest) ToUseCaseInput(actorID string) usecase.PurchaseSharesInput {
	return usecase.PurchaseSharesInput{
		CycleID:        r.CycleID,
		InvestorID:     r.InvestorID,
		NumberOfShares: r.NumberOfShares,
		SharePrice:     r.SharePrice,
		PurchaseDate:   r.PurchaseDate,
		ActorID:        actorID,
	}
}

// SocialFundRequest represents a welfare fund contribution or withdrawal.
// Amount is always a positive magnitude.
type SocialFundRequest struct {
	GroupID         string          `json:"group_id"`
	CycleID         string          `json:"cycle_id"`
	MemberID        *string         `json:"member_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Reason          string          `json:"reason,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SocialFundRequest) ToUseCaseInput(actorID string) usecase.SocialFundInput {
	return usecase.SocialFundInput{
		GroupID:         r.GroupID,
		CycleID:         r.CycleID,
		MemberID:        r.MemberID,
		Amount:          r.Amount,
		TransactionDate: r.TransactionDate,
		Reason:          r.Reason,
		ActorID:         actorID,
	}
}

// CreateGroupRequest represents a request to register a group.
type CreateGroupRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// CreateCycleRequest represents a request to start a savings cycle.
type CreateCycleRequest struct {
	Name         string          `json:"name"`
	SharePrice   decimal.Decimal `json:"share_price"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCycleRequest) ToUseCaseInput(groupID string) usecase.CreateCycleInput {
	return usecase.CreateCycleInput{
		GroupID:      groupID,
		Name:         r.Name,
		SharePrice:   r.SharePrice,
		InterestRate: r.InterestRate,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
	}
}

// AddMemberRequest represents a request to enroll a member in a group.
type AddMemberRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
