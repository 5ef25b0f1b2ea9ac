package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group is a village savings and loan association.
type Group struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
}

// CycleStatus is the lifecycle state of a savings cycle.
type CycleStatus string

const (
	CycleActive    CycleStatus = "active"
	CycleSharedOut CycleStatus = "shared_out"
)

// Cycle is one fixed-duration savings and lending period of a group.
// SharePrice and InterestRate are the group's agreed terms for the cycle.
type Cycle struct {
	ID           string
	GroupID      string
	Name         string
	SharePrice   decimal.Decimal
	InterestRate decimal.Decimal // percent, flat over the loan term
	StartDate    time.Time
	EndDate      time.Time
	Status       CycleStatus
	CreatedAt    time.Time
}

// Member belongs to exactly one group.
type Member struct {
	ID        string
	GroupID   string
	Name      string
	Phone     string
	JoinedAt  time.Time
	CreatedAt time.Time
}
