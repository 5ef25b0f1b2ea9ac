package domain

import "time"

// Event types
const (
	EventTypeMeetingProcessed = "meeting.processed"
	EventTypeLoanDisbursed    = "loan.disbursed"
	EventTypeLoanRepaid       = "loan.repaid"
	EventTypeLoanPaidOff      = "loan.paid_off"
)

// Aggregate types
const (
	AggregateTypeMeeting = "meeting"
	AggregateTypeLoan    = "loan"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// MeetingProcessedEvent payload
type MeetingProcessedEvent struct {
	MeetingID string `json:"meeting_id"`
	LocalID   string `json:"local_id"`
	GroupID   string `json:"group_id"`
	CycleID   string `json:"cycle_id"`
	Status    string `json:"status"`
	Warnings  int    `json:"warnings"`
}

// LoanDisbursedEvent payload
type LoanDisbursedEvent struct {
	LoanID     string `json:"loan_id"`
	CycleID    string `json:"cycle_id"`
	BorrowerID string `json:"borrower_id"`
	Principal  string `json:"principal"`
	TotalDue   string `json:"total_due"`
}

// LoanRepaidEvent payload
type LoanRepaidEvent struct {
	LoanID  string `json:"loan_id"`
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
	Status  string `json:"status"`
}
