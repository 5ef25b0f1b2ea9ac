package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewPostingBalances(t *testing.T) {
	now := time.Now().UTC()
	meetingID := "meeting-1"

	groupLeg, memberLeg := NewPosting(PostingParams{
		GroupLegID:   "leg-g",
		MemberLegID:  "leg-m",
		GroupID:      "group-1",
		MemberID:     "member-1",
		MemberAmount: decimal.RequireFromString("100000"),
		Source:       SourceLoanDisbursement,
		Date:         now,
		MeetingID:    &meetingID,
		ActorID:      "actor-1",
		Now:          now,
	})

	if !groupLeg.Amount.Add(memberLeg.Amount).IsZero() {
		t.Errorf("legs do not balance: group=%s member=%s", groupLeg.Amount, memberLeg.Amount)
	}

	if !groupLeg.IsGroupLeg() {
		t.Error("group leg must have nil member id")
	}

	if memberLeg.IsGroupLeg() || *memberLeg.MemberID != "member-1" {
		t.Error("member leg must carry the member id")
	}

	if *groupLeg.ContraID != memberLeg.ID || *memberLeg.ContraID != groupLeg.ID {
		t.Error("contra references must cross-link the pair")
	}

	if groupLeg.Source != SourceLoanDisbursement || memberLeg.Source != SourceLoanDisbursement {
		t.Error("both legs must carry the posting source")
	}
}

func TestNewPostingMemberToGroupFlow(t *testing.T) {
	now := time.Now().UTC()

	// Savings flow money from the member to the group: member leg negative.
	groupLeg, memberLeg := NewPosting(PostingParams{
		GroupLegID:   "g",
		MemberLegID:  "m",
		GroupID:      "group-1",
		MemberID:     "member-1",
		MemberAmount: decimal.RequireFromString("-2000"),
		Source:       SourceSavings,
		Date:         now,
		ActorID:      "actor-1",
		Now:          now,
	})

	if !groupLeg.Amount.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("group leg = %s, want 2000", groupLeg.Amount)
	}

	if !memberLeg.Amount.Equal(decimal.RequireFromString("-2000")) {
		t.Errorf("member leg = %s, want -2000", memberLeg.Amount)
	}
}

func TestValidatePosting(t *testing.T) {
	tests := []struct {
		name    string
		params  PostingParams
		wantErr error
	}{
		{
			"valid",
			PostingParams{Source: SourceSavings, MemberAmount: decimal.NewFromInt(100)},
			nil,
		},
		{
			"unknown source",
			PostingParams{Source: TransactionSource("bribes"), MemberAmount: decimal.NewFromInt(100)},
			ErrMalformedMeeting,
		},
		{
			"zero amount",
			PostingParams{Source: SourceSavings, MemberAmount: decimal.Zero},
			ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePosting(tt.params); err != tt.wantErr {
				t.Errorf("ValidatePosting() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionSourceValid(t *testing.T) {
	for _, s := range []TransactionSource{
		SourceSavings, SourceSharePurchase, SourceWelfareContribution,
		SourceLoanRepayment, SourceFinePayment, SourceLoanDisbursement,
		SourceShareDividend, SourceWelfareDistribution,
		SourceAdministrativeExpense, SourceExternalIncome,
		SourceBankCharges, SourceManualAdjustment,
	} {
		if !s.Valid() {
			t.Errorf("source %s should be valid", s)
		}
	}

	if TransactionSource("unknown").Valid() {
		t.Error("unknown source should not be valid")
	}
}
