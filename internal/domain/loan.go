package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanActive  LoanStatus = "active"
	LoanOverdue LoanStatus = "overdue"
	LoanPaid    LoanStatus = "paid"
)

// BalanceEpsilon is the rounding tolerance under which a loan balance
// counts as settled.
var BalanceEpsilon = decimal.RequireFromString("0.01")

// Loan is one loan contract issued from a cycle's loan capital.
// Balance must always equal TotalDue - AmountPaid plus accrued penalties,
// and must be independently recomputable from the loan's transaction log.
type Loan struct {
	ID               string
	CycleID          string
	GroupID          string
	BorrowerID       string
	Principal        decimal.Decimal
	InterestRate     decimal.Decimal // percent, flat
	DurationMonths   int
	TotalDue         decimal.Decimal
	AmountPaid       decimal.Decimal
	Balance          decimal.Decimal
	DisbursementDate time.Time
	DueDate          time.Time
	Status           LoanStatus
	Purpose          string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LoanTotalDue computes the contract amount owed at disbursement.
// Interest is flat (simple, non-compounding) over the stated duration:
// principal * (1 + rate/100).
func LoanTotalDue(principal, interestRate decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	return principal.Mul(one.Add(interestRate.Div(hundred))).Round(2)
}

// Settled reports whether the balance is within epsilon of zero.
func (l *Loan) Settled() bool {
	return l.Balance.LessThanOrEqual(BalanceEpsilon)
}

// ValidateRepayment checks a repayment amount against the current balance.
// A repayment larger than the balance is a structural error, not a warning.
func (l *Loan) ValidateRepayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if l.Status == LoanPaid {
		return ErrLoanAlreadyPaid
	}

	if amount.GreaterThan(l.Balance) {
		return ErrPaymentExceedsBalance
	}

	return nil
}

// ApplyRepayment returns the new amount paid, balance and status after a
// repayment. It does not mutate the loan.
func (l *Loan) ApplyRepayment(amount decimal.Decimal) (amountPaid, balance decimal.Decimal, status LoanStatus) {
	amountPaid = l.AmountPaid.Add(amount)
	balance = l.Balance.Sub(amount)

	status = l.Status
	if balance.LessThanOrEqual(BalanceEpsilon) {
		status = LoanPaid
	}

	return amountPaid, balance, status
}

// LoanTransactionType classifies a posting against a loan's running balance.
type LoanTransactionType string

const (
	LoanTxPayment      LoanTransactionType = "payment"
	LoanTxPenalty      LoanTransactionType = "penalty"
	LoanTxDisbursement LoanTransactionType = "disbursement"
)

// LoanTransaction is one posting in a loan's running transaction log.
// Amounts are signed: payments are positive, penalties negative, and the
// initial disbursement row carries the negated total due, so that at any
// point balance == -sum(amounts).
type LoanTransaction struct {
	ID              string
	LoanID          string
	Amount          decimal.Decimal
	Type            LoanTransactionType
	TransactionDate time.Time
	Description     string
	CreatedBy       string
	CreatedAt       time.Time
}

// LoanBalanceFromHistory recomputes a loan balance from its full
// transaction log. The result must match the stored balance; a mismatch
// indicates a bug.
func LoanBalanceFromHistory(txs []*LoanTransaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}

	return sum.Neg()
}
