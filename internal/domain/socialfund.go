package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SocialFundType distinguishes welfare fund contributions from withdrawals.
type SocialFundType string

const (
	SocialFundContribution SocialFundType = "contribution"
	SocialFundWithdrawal   SocialFundType = "withdrawal"
)

// SocialFundTransaction is one movement of a group's welfare fund.
// Contributions are stored positive, withdrawals negative, so the fund
// balance is always the plain sum of the transaction log.
type SocialFundTransaction struct {
	ID              string
	GroupID         string
	CycleID         string
	MemberID        *string
	MeetingID       *string
	Type            SocialFundType
	Amount          decimal.Decimal
	TransactionDate time.Time
	Reason          string
	CreatedBy       string
	CreatedAt       time.Time
}

// Validate checks that the stored sign matches the transaction type.
func (t *SocialFundTransaction) Validate() error {
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}

	switch t.Type {
	case SocialFundContribution:
		if t.Amount.IsNegative() {
			return ErrInvalidAmount
		}
	case SocialFundWithdrawal:
		if t.Amount.IsPositive() {
			return ErrInvalidAmount
		}
	default:
		return ErrMalformedMeeting
	}

	return nil
}
