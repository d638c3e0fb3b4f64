package models

import (
	"time"

	"dundies/internal/awards"
)

// Winner is the current holder of one award category. At most one Winner
// exists per category; resolution replaces the whole record, never mutates
// it in place.
type Winner struct {
	ID           string          `json:"id"`
	NominationID string          `json:"nomination_id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Category     awards.Category `json:"category"`
	TotalVotes   int             `json:"total_votes"`
	Reason       string          `json:"reason"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NominationSnapshot is the resolver's read-only view of one nomination,
// fetched from the nominations service. Category stays a raw string until
// winner construction; the snapshot is not re-validated here.
type NominationSnapshot struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Category     string `json:"category"`
	Reason       string `json:"reason"`
}
