package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMeetingValidate(t *testing.T) {
	valid := Meeting{
		LocalID:     "local-1",
		CycleID:     "cycle-1",
		GroupID:     "group-1",
		MeetingDate: time.Now(),
	}

	tests := []struct {
		name    string
		mutate  func(m *Meeting)
		wantErr error
	}{
		{"valid", func(m *Meeting) {}, nil},
		{"missing local id", func(m *Meeting) { m.LocalID = "" }, ErrMalformedMeeting},
		{"missing cycle", func(m *Meeting) { m.CycleID = "" }, ErrMalformedMeeting},
		{"missing group", func(m *Meeting) { m.GroupID = "" }, ErrMalformedMeeting},
		{"zero date", func(m *Meeting) { m.MeetingDate = time.Time{} }, ErrMalformedMeeting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			if err := m.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMeetingIssues(t *testing.T) {
	m := &Meeting{ProcessingStatus: ProcessingCompleted}

	m.AddWarning(IssueMemberNotFound, "member m-9 not found")
	if !m.HasWarnings || m.HasErrors {
		t.Error("warning should set HasWarnings only")
	}

	m.AddError(IssueGroupMismatch, "cycle belongs to another group")
	if !m.HasErrors {
		t.Error("error should set HasErrors")
	}

	result := m.Result()
	if !result.Success {
		t.Error("result success should mirror completed status")
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Type != IssueMemberNotFound {
		t.Errorf("unexpected warnings: %+v", result.Warnings)
	}
	if len(result.Errors) != 1 {
		t.Errorf("unexpected errors: %+v", result.Errors)
	}
}

func TestSharePurchaseValidate(t *testing.T) {
	valid := SharePurchase{
		NumberOfShares: 5,
		SharePrice:     decimal.RequireFromString("5000"),
		TotalPaid:      decimal.RequireFromString("25000"),
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("valid purchase rejected: %v", err)
	}

	broken := valid
	broken.TotalPaid = decimal.RequireFromString("24000")
	if err := broken.Validate(); err != ErrMalformedMeeting {
		t.Errorf("total mismatch should be rejected, got %v", err)
	}

	zero := valid
	zero.NumberOfShares = 0
	if err := zero.Validate(); err != ErrInvalidAmount {
		t.Errorf("zero shares should be rejected, got %v", err)
	}
}

func TestSocialFundTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		typ     SocialFundType
		amount  string
		wantErr error
	}{
		{"contribution positive", SocialFundContribution, "1000", nil},
		{"withdrawal negative", SocialFundWithdrawal, "-1000", nil},
		{"contribution negative", SocialFundContribution, "-1000", ErrInvalidAmount},
		{"withdrawal positive", SocialFundWithdrawal, "1000", ErrInvalidAmount},
		{"zero", SocialFundContribution, "0", ErrInvalidAmount},
		{"unknown type", SocialFundType("loan"), "1000", ErrMalformedMeeting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := SocialFundTransaction{Type: tt.typ, Amount: decimal.RequireFromString(tt.amount)}
			if err := tx.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
