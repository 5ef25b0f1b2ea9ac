package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/domain"
)

func TestSubmitMeetingRequestToDomain(t *testing.T) {
	payload := `{
		"local_id": "mobile-42",
		"cycle_id": "cycle-1",
		"group_id": "grp-1",
		"meeting_date": "2026-03-14T10:00:00Z",
		"meeting_number": 7,
		"attendance": [{"member_id": "mem-1", "present": true}],
		"transactions": [{"member_id": "mem-1", "amount": "2000", "source": "savings"}],
		"repayments": [{"loan_id": "loan-1", "amount": "5000"}],
		"social_fund": [{"type": "contribution", "amount": "1000"}],
		"total_savings": "2000"
	}`

	var req dto.SubmitMeetingRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	meeting := req.ToDomain()

	if meeting.LocalID != "mobile-42" {
		t.Fatalf("expected local id mobile-42, got %s", meeting.LocalID)
	}

	if meeting.MeetingNumber != 7 {
		t.Fatalf("expected meeting number 7, got %d", meeting.MeetingNumber)
	}

	if len(meeting.Attendance) != 1 || !meeting.Attendance[0].Present {
		t.Fatalf("attendance not carried over: %+v", meeting.Attendance)
	}

	if len(meeting.Transactions) != 1 || meeting.Transactions[0].Source != domain.SourceSavings {
		t.Fatalf("transactions not carried over: %+v", meeting.Transactions)
	}

	if !meeting.Transactions[0].Amount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected amount 2000, got %s", meeting.Transactions[0].Amount)
	}

	if len(meeting.Repayments) != 1 || meeting.Repayments[0].LoanID != "loan-1" {
		t.Fatalf("repayments not carried over: %+v", meeting.Repayments)
	}

	if err := meeting.Validate(); err != nil {
		t.Fatalf("expected valid meeting, got %v", err)
	}
}

func TestDisburseLoanRequestToUseCaseInput(t *testing.T) {
	req := dto.DisburseLoanRequest{
		CycleID:          "cycle-1",
		BorrowerID:       "mem-1",
		Principal:        decimal.NewFromInt(100000),
		InterestRate:     decimal.NewFromInt(10),
		DurationMonths:   3,
		DisbursementDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Purpose:          "school fees",
	}

	input := req.ToUseCaseInput("officer-1")

	if input.ActorID != "officer-1" {
		t.Fatalf("expected actor officer-1, got %s", input.ActorID)
	}

	if input.MeetingID != nil {
		t.Fatalf("standalone disbursement must not carry a meeting id")
	}

	if !input.Principal.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected principal 100000, got %s", input.Principal)
	}
}

func TestSocialFundRequestToUseCaseInput(t *testing.T) {
	memberID := "mem-2"
	req := dto.SocialFundRequest{
		GroupID:         "grp-1",
		CycleID:         "cycle-1",
		MemberID:        &memberID,
		Amount:          decimal.NewFromInt(500),
		TransactionDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Reason:          "funeral support",
	}

	input := req.ToUseCaseInput("officer-1")

	if input.MemberID == nil || *input.MemberID != "mem-2" {
		t.Fatalf("member id not carried over: %v", input.MemberID)
	}

	if input.Reason != "funeral support" {
		t.Fatalf("reason not carried over: %s", input.Reason)
	}
}
