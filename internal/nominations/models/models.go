package models

import (
	"time"

	"dundies/internal/awards"
	dErrors "dundies/pkg/domain-errors"
)

// Nomination is immutable once created. Retrieval order matches creation
// order; the winner resolver's tie-break depends on it.
type Nomination struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	Category      awards.Category `json:"category"`
	NominatorID   string          `json:"nominator_id"`
	NominatorName string          `json:"nominator_name"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateNominationRequest is the POST /nominations payload.
type CreateNominationRequest struct {
	EmployeeID  string `json:"employee_id"`
	Category    string `json:"category"`
	NominatorID string `json:"nominator_id"`
	Reason      string `json:"reason"`
}

// Validate rejects malformed requests before any lookup or mutation.
func (r *CreateNominationRequest) Validate() (awards.Category, error) {
	if r.EmployeeID == "" {
		return "", dErrors.New(dErrors.CodeValidation, "employee_id is required")
	}
	if r.NominatorID == "" {
		return "", dErrors.New(dErrors.CodeValidation, "nominator_id is required")
	}
	if r.Reason == "" {
		return "", dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return awards.Parse(r.Category)
}
