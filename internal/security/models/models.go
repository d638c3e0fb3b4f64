package models

import (
	"time"

	"dundies/internal/audit"
	dErrors "dundies/pkg/domain-errors"
)

// LogEntry is one materialized audit event. EventID is unique across the
// log: at-least-once delivery from the bus materializes each event at most
// once. The only mutation is the investigation transition.
type LogEntry struct {
	ID                 string          `json:"id"`
	EventID            string          `json:"event_id"`
	EventType          audit.EventType `json:"event_type"`
	ServiceName        string          `json:"service_name"`
	UserID             string          `json:"user_id,omitempty"`
	UserName           string          `json:"user_name,omitempty"`
	Details            map[string]any  `json:"details,omitempty"`
	RiskScore          int             `json:"risk_score"`
	Investigated       bool            `json:"investigated"`
	InvestigationNotes string          `json:"investigation_notes,omitempty"`
	InvestigatedAt     *time.Time      `json:"investigated_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Filter selects log entries. Zero values mean "no constraint"; the pointer
// fields distinguish unset from false/zero. Filters compose with AND.
type Filter struct {
	EventType    audit.EventType
	ServiceName  string
	UserID       string
	MinRiskScore *int
	Investigated *bool
	Limit        int
}

// InvestigateRequest is the POST /audit/logs/{id}/investigate payload.
type InvestigateRequest struct {
	InvestigationNotes string `json:"investigation_notes"`
}

func (r *InvestigateRequest) Validate() error {
	if r.InvestigationNotes == "" {
		return dErrors.New(dErrors.CodeValidation, "investigation_notes is required")
	}
	return nil
}

// SecurityMetrics is the aggregate view over the full log.
type SecurityMetrics struct {
	TotalEvents              int            `json:"total_events"`
	HighRiskEvents           int            `json:"high_risk_events"`
	InvestigatedEvents       int            `json:"investigated_events"`
	PendingInvestigations    int            `json:"pending_investigations"`
	EventsByType             map[string]int `json:"events_by_type"`
	RecentSuspiciousActivity []LogEntry     `json:"recent_suspicious_activity"`
}
