package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharePurchase is one investor's share purchase in a cycle. TotalPaid is
// fixed at creation time as NumberOfShares * SharePrice.
type SharePurchase struct {
	ID             string
	CycleID        string
	InvestorID     string
	NumberOfShares int64
	SharePrice     decimal.Decimal
	TotalPaid      decimal.Decimal
	PurchaseDate   time.Time
	CreatedBy      string
	CreatedAt      time.Time
}

// ShareTotal computes the amount paid for a share purchase.
func ShareTotal(numberOfShares int64, sharePrice decimal.Decimal) decimal.Decimal {
	return sharePrice.Mul(decimal.NewFromInt(numberOfShares))
}

// Validate checks the share-total integrity invariant.
func (s *SharePurchase) Validate() error {
	if s.NumberOfShares <= 0 || s.SharePrice.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !s.TotalPaid.Equal(ShareTotal(s.NumberOfShares, s.SharePrice)) {
		return ErrMalformedMeeting
	}

	return nil
}
