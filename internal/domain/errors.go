package domain

import "errors"

var (
	// Structural errors abort the whole meeting and roll back the transaction.
	ErrCycleNotFound           = errors.New("cycle not found")
	ErrGroupNotFound           = errors.New("group not found")
	ErrGroupMismatch           = errors.New("meeting group does not match cycle group")
	ErrMeetingNotFound         = errors.New("meeting not found")
	ErrMeetingAlreadyProcessed = errors.New("meeting already processed")
	ErrDuplicateLocalID        = errors.New("meeting with this local id already submitted")
	ErrPaymentExceedsBalance   = errors.New("payment exceeds loan balance")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrMalformedMeeting        = errors.New("malformed meeting payload")

	// Entity-resolution errors are recorded as warnings and the item is skipped.
	ErrMemberNotFound         = errors.New("member not found")
	ErrInvestorNotFound       = errors.New("investor not found")
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanCycleMismatch      = errors.New("loan does not belong to meeting cycle")
	ErrLoanAlreadyPaid        = errors.New("loan is already paid")
	ErrInsufficientSocialFund = errors.New("withdrawal exceeds social fund balance")
	ErrActionPlansDisabled    = errors.New("action plans are not enabled")
)
