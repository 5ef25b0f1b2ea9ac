package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultMeetingIssueLimit caps issue lists persisted per meeting so a
	// pathological submission cannot grow the row without bound
	DefaultMeetingIssueLimit = 500
)
