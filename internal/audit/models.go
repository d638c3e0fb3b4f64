// Package audit defines the wire-level audit event, the bus abstraction, and
// the fire-and-forget publisher used by every producing service.
package audit

import "time"

// EventType enumerates the audited business actions.
type EventType string

const (
	EventNominationSubmitted EventType = "nomination_submitted"
	EventVoteCast            EventType = "vote_cast"
	EventWinnerCalculated    EventType = "winner_calculated"
	EventNotificationSent    EventType = "notification_sent"
	EventSuspiciousActivity  EventType = "suspicious_activity"
)

// Known reports whether t is one of the enumerated event types.
func (t EventType) Known() bool {
	switch t {
	case EventNominationSubmitted, EventVoteCast, EventWinnerCalculated,
		EventNotificationSent, EventSuspiciousActivity:
		return true
	}
	return false
}

// Event is the wire message published to the audit topic. The producer
// assigns ID; it is globally unique and serves as the deduplication key for
// at-least-once consumers. Events are immutable once published.
type Event struct {
	ID           string         `json:"id"`
	EventType    EventType      `json:"event_type"`
	ServiceName  string         `json:"service_name"`
	UserID       string         `json:"user_id,omitempty"`
	UserName     string         `json:"user_name,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	ResourceType string         `json:"resource_type,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NominationSubmitted builds the audit event for a created nomination.
func NominationSubmitted(nominatorID, nominatorName, employeeID, category, nominationID string) Event {
	return Event{
		EventType:    EventNominationSubmitted,
		ServiceName:  "nominations",
		UserID:       nominatorID,
		UserName:     nominatorName,
		ResourceID:   nominationID,
		ResourceType: "nomination",
		Details: map[string]any{
			"employee_id": employeeID,
			"category":    category,
			"action":      "nomination_created",
		},
	}
}

// VoteCast builds the audit event for a cast vote.
func VoteCast(voterID, voterName, nominationID, voteID string) Event {
	return Event{
		EventType:    EventVoteCast,
		ServiceName:  "voting",
		UserID:       voterID,
		UserName:     voterName,
		ResourceID:   voteID,
		ResourceType: "vote",
		Details: map[string]any{
			"nomination_id": nominationID,
			"action":        "vote_created",
		},
	}
}

// WinnerCalculated builds the audit event for a resolved winner. There is no
// acting user; the resolver runs on behalf of the system.
func WinnerCalculated(category string, winnerID string, totalVotes int) Event {
	return Event{
		EventType:    EventWinnerCalculated,
		ServiceName:  "winners",
		ResourceID:   winnerID,
		ResourceType: "winner",
		Details: map[string]any{
			"category":    category,
			"total_votes": totalVotes,
			"action":      "winner_calculated",
		},
	}
}

// NotificationSent builds the audit event for a delivered notification.
func NotificationSent(winnerID, employeeID, employeeName, notificationID string) Event {
	return Event{
		EventType:    EventNotificationSent,
		ServiceName:  "notifications",
		UserID:       employeeID,
		UserName:     employeeName,
		ResourceID:   notificationID,
		ResourceType: "notification",
		Details: map[string]any{
			"winner_id": winnerID,
			"action":    "notification_sent",
		},
	}
}
