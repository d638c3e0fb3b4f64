// Package scorer maps an audit event to a 0-100 risk score.
//
// The function is pure and deterministic: no clock, no randomness, no state.
// Identical events always score identically, so re-scoring a redelivered
// event can never disagree with the first delivery.
package scorer

import (
	"encoding/json"
	"fmt"
	"strings"

	"dundies/internal/audit"
)

// Base scores per event kind. Unknown kinds contribute 0.
var baseScores = map[audit.EventType]int{
	audit.EventNominationSubmitted: 10,
	audit.EventVoteCast:            15,
	audit.EventWinnerCalculated:    20,
	audit.EventNotificationSent:    5,
	audit.EventSuspiciousActivity:  80,
}

const (
	anonymousPenalty = 20 // no actor identity: inherently riskier
	multiplePenalty  = 15 // producer reported repeated behavior
	rapidPenalty     = 25 // producer reported bursty behavior
)

// Score computes the risk score for one event, clamped to [0, 100].
func Score(event audit.Event) int {
	score := baseScores[event.EventType]

	if event.UserID == "" {
		score += anonymousPenalty
	}

	if len(event.Details) > 0 {
		text := strings.ToLower(detailsText(event.Details))
		if strings.Contains(text, "multiple") {
			score += multiplePenalty
		}
		if strings.Contains(text, "rapid") {
			score += rapidPenalty
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// detailsText serializes the detail map for substring matching. JSON keeps
// map keys sorted, so the serialization is stable for identical inputs.
func detailsText(details map[string]any) string {
	b, err := json.Marshal(details)
	if err != nil {
		return fmt.Sprintf("%v", details)
	}
	return string(b)
}
