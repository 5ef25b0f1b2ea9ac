package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoanTotalDue(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		want      string
	}{
		{"10 percent flat", "100000", "10", "110000"},
		{"zero interest", "50000", "0", "50000"},
		{"fractional rate", "30000", "2.5", "30750"},
		{"rounds to cents", "1000.01", "10", "1100.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoanTotalDue(decimal.RequireFromString(tt.principal), decimal.RequireFromString(tt.rate))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("LoanTotalDue(%s, %s) = %s, want %s", tt.principal, tt.rate, got, tt.want)
			}
		})
	}
}

func TestLoanValidateRepayment(t *testing.T) {
	loan := &Loan{
		TotalDue: decimal.RequireFromString("110000"),
		Balance:  decimal.RequireFromString("80000"),
		Status:   LoanActive,
	}

	tests := []struct {
		name    string
		amount  string
		status  LoanStatus
		wantErr error
	}{
		{"valid partial", "30000", LoanActive, nil},
		{"valid exact", "80000", LoanActive, nil},
		{"exceeds balance", "90000", LoanActive, ErrPaymentExceedsBalance},
		{"zero amount", "0", LoanActive, ErrInvalidAmount},
		{"negative amount", "-5", LoanActive, ErrInvalidAmount},
		{"already paid", "10", LoanPaid, ErrLoanAlreadyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan.Status = tt.status
			err := loan.ValidateRepayment(decimal.RequireFromString(tt.amount))
			if err != tt.wantErr {
				t.Errorf("ValidateRepayment(%s) = %v, want %v", tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestLoanApplyRepayment(t *testing.T) {
	loan := &Loan{
		TotalDue:   decimal.RequireFromString("110000"),
		AmountPaid: decimal.Zero,
		Balance:    decimal.RequireFromString("110000"),
		Status:     LoanActive,
	}

	paid, balance, status := loan.ApplyRepayment(decimal.RequireFromString("30000"))
	if !paid.Equal(decimal.RequireFromString("30000")) {
		t.Errorf("amount paid = %s, want 30000", paid)
	}
	if !balance.Equal(decimal.RequireFromString("80000")) {
		t.Errorf("balance = %s, want 80000", balance)
	}
	if status != LoanActive {
		t.Errorf("status = %s, want active", status)
	}

	loan.AmountPaid = paid
	loan.Balance = balance

	paid, balance, status = loan.ApplyRepayment(decimal.RequireFromString("80000"))
	if !balance.IsZero() {
		t.Errorf("balance after full repayment = %s, want 0", balance)
	}
	if !paid.Equal(decimal.RequireFromString("110000")) {
		t.Errorf("amount paid = %s, want 110000", paid)
	}
	if status != LoanPaid {
		t.Errorf("status = %s, want paid", status)
	}
}

func TestLoanApplyRepaymentWithinEpsilon(t *testing.T) {
	loan := &Loan{
		AmountPaid: decimal.RequireFromString("109999.99"),
		Balance:    decimal.RequireFromString("0.01"),
		Status:     LoanActive,
	}

	_, balance, status := loan.ApplyRepayment(decimal.RequireFromString("0.005"))
	if status != LoanPaid {
		t.Errorf("status = %s, want paid when balance %s is within epsilon", status, balance)
	}
}

func TestLoanBalanceFromHistory(t *testing.T) {
	totalDue := decimal.RequireFromString("110000")

	txs := []*LoanTransaction{
		{Type: LoanTxDisbursement, Amount: totalDue.Neg()},
		{Type: LoanTxPayment, Amount: decimal.RequireFromString("30000")},
	}

	if got := LoanBalanceFromHistory(txs); !got.Equal(decimal.RequireFromString("80000")) {
		t.Errorf("balance from history = %s, want 80000", got)
	}

	// Penalty increases the debt.
	txs = append(txs, &LoanTransaction{Type: LoanTxPenalty, Amount: decimal.RequireFromString("-500")})

	if got := LoanBalanceFromHistory(txs); !got.Equal(decimal.RequireFromString("80500")) {
		t.Errorf("balance with penalty = %s, want 80500", got)
	}

	txs = append(txs, &LoanTransaction{Type: LoanTxPayment, Amount: decimal.RequireFromString("80500")})

	if got := LoanBalanceFromHistory(txs); !got.IsZero() {
		t.Errorf("balance after settlement = %s, want 0", got)
	}
}
