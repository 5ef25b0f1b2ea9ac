package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSource classifies the economic event behind a posting.
type TransactionSource string

const (
	SourceSavings               TransactionSource = "savings"
	SourceSharePurchase         TransactionSource = "share_purchase"
	SourceWelfareContribution   TransactionSource = "welfare_contribution"
	SourceLoanRepayment         TransactionSource = "loan_repayment"
	SourceFinePayment           TransactionSource = "fine_payment"
	SourceLoanDisbursement      TransactionSource = "loan_disbursement"
	SourceShareDividend         TransactionSource = "share_dividend"
	SourceWelfareDistribution   TransactionSource = "welfare_distribution"
	SourceAdministrativeExpense TransactionSource = "administrative_expense"
	SourceExternalIncome        TransactionSource = "external_income"
	SourceBankCharges           TransactionSource = "bank_charges"
	SourceManualAdjustment      TransactionSource = "manual_adjustment"
)

var validSources = map[TransactionSource]bool{
	SourceSavings:               true,
	SourceSharePurchase:         true,
	SourceWelfareContribution:   true,
	SourceLoanRepayment:         true,
	SourceFinePayment:           true,
	SourceLoanDisbursement:      true,
	SourceShareDividend:         true,
	SourceWelfareDistribution:   true,
	SourceAdministrativeExpense: true,
	SourceExternalIncome:        true,
	SourceBankCharges:           true,
	SourceManualAdjustment:      true,
}

// Valid reports whether s is a known transaction source.
func (s TransactionSource) Valid() bool {
	return validSources[s]
}

// AccountTransaction is one leg of a double-entry posting. MemberID is nil
// for the group leg. Amount is positive when the owner of the leg is
// credited. Rows are append-only; every leg references its contra leg.
type AccountTransaction struct {
	ID              string
	GroupID         string
	MemberID        *string
	Amount          decimal.Decimal
	Source          TransactionSource
	TransactionDate time.Time
	Description     string
	MeetingID       *string
	LoanID          *string
	ContraID        *string
	CreatedBy       string
	CreatedAt       time.Time
}

// IsGroupLeg reports whether this leg belongs to the group ledger.
func (t *AccountTransaction) IsGroupLeg() bool {
	return t.MemberID == nil
}

// PostingParams describes one economic event to be recorded as a balanced
// pair of account transactions.
type PostingParams struct {
	GroupLegID   string
	MemberLegID  string
	GroupID      string
	MemberID     string
	MemberAmount decimal.Decimal // signed amount credited to the member
	Source       TransactionSource
	Date         time.Time
	Description  string
	MeetingID    *string
	LoanID       *string
	ActorID      string
	Now          time.Time
}

// NewPosting builds the two legs of a double-entry posting. The member leg
// carries MemberAmount; the group leg carries the opposite sign, so the two
// legs of every posting sum to zero.
func NewPosting(p PostingParams) (groupLeg, memberLeg *AccountTransaction) {
	memberID := p.MemberID

	groupLeg = &AccountTransaction{
		ID:              p.GroupLegID,
		GroupID:         p.GroupID,
		MemberID:        nil,
		Amount:          p.MemberAmount.Neg(),
		Source:          p.Source,
		TransactionDate: p.Date,
		Description:     p.Description,
		MeetingID:       p.MeetingID,
		LoanID:          p.LoanID,
		ContraID:        &p.MemberLegID,
		CreatedBy:       p.ActorID,
		CreatedAt:       p.Now,
	}

	memberLeg = &AccountTransaction{
		ID:              p.MemberLegID,
		GroupID:         p.GroupID,
		MemberID:        &memberID,
		Amount:          p.MemberAmount,
		Source:          p.Source,
		TransactionDate: p.Date,
		Description:     p.Description,
		MeetingID:       p.MeetingID,
		LoanID:          p.LoanID,
		ContraID:        &p.GroupLegID,
		CreatedBy:       p.ActorID,
		CreatedAt:       p.Now,
	}

	return groupLeg, memberLeg
}

// ValidatePosting checks that p can produce a legal pair.
func ValidatePosting(p PostingParams) error {
	if !p.Source.Valid() {
		return ErrMalformedMeeting
	}

	if p.MemberAmount.IsZero() {
		return ErrInvalidAmount
	}

	return nil
}
