package domain

import "time"

// Attendance is one member's persisted attendance row for a meeting.
type Attendance struct {
	ID        string
	MeetingID string
	MemberID  string
	Present   bool
	Note      string
	CreatedAt time.Time
}
