package domain

import "time"

// ActionPlan is a persisted group action plan item. Action plans are an
// optional feature; when disabled, meeting processing records a warning
// instead of creating rows.
type ActionPlan struct {
	ID          string
	GroupID     string
	MeetingID   string
	Kind        ActionPlanKind
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
	CreatedAt   time.Time
}
