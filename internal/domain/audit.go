package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging.
// ActorID is always an explicit parameter of the operation being audited,
// never ambient state.
type AuditLog struct {
	ID           string
	ActorID      string // Who performed the action
	Action       string // What action (meeting.process, loan.disburse, etc.)
	ResourceType string // Type of resource (meeting, loan, share, social_fund)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string // success, failure, error
	ErrorMessage string // If status=error, the error message
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionMeetingProcess AuditAction = "meeting.process"

	AuditActionLoanDisburse AuditAction = "loan.disburse"
	AuditActionLoanRepay    AuditAction = "loan.repay"
	AuditActionLoanPenalty  AuditAction = "loan.penalty"

	AuditActionSharePurchase AuditAction = "share.purchase"

	AuditActionFundContribute AuditAction = "social_fund.contribute"
	AuditActionFundWithdraw   AuditAction = "social_fund.withdraw"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
