package models

import (
	"time"

	"dundies/internal/awards"
	dErrors "dundies/pkg/domain-errors"
)

// Notification records a congratulation delivered to a winner. One
// notification per winner; re-sending skips winners already notified.
type Notification struct {
	ID           string          `json:"id"`
	WinnerID     string          `json:"winner_id,omitempty"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Category     awards.Category `json:"category,omitempty"`
	Message      string          `json:"message"`
	Sent         bool            `json:"sent"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ManualNotificationRequest is the POST /notifications/manual payload.
type ManualNotificationRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Message      string `json:"message"`
}

func (r *ManualNotificationRequest) Validate() error {
	if r.EmployeeID == "" {
		return dErrors.New(dErrors.CodeValidation, "employee_id is required")
	}
	if r.EmployeeName == "" {
		return dErrors.New(dErrors.CodeValidation, "employee_name is required")
	}
	if r.Message == "" {
		return dErrors.New(dErrors.CodeValidation, "message is required")
	}
	return nil
}

// WinnerSnapshot is the notifications service's read-only view of a winner.
type WinnerSnapshot struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Category     string `json:"category"`
	TotalVotes   int    `json:"total_votes"`
	Reason       string `json:"reason"`
}
