package models

import (
	"time"

	dErrors "dundies/pkg/domain-errors"
)

// Vote is immutable once cast. One vote per (nomination, voter) pair.
type Vote struct {
	ID           string    `json:"id"`
	NominationID string    `json:"nomination_id"`
	VoterID      string    `json:"voter_id"`
	VoterName    string    `json:"voter_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateVoteRequest is the POST /votes payload.
type CreateVoteRequest struct {
	NominationID string `json:"nomination_id"`
	VoterID      string `json:"voter_id"`
}

func (r *CreateVoteRequest) Validate() error {
	if r.NominationID == "" {
		return dErrors.New(dErrors.CodeValidation, "nomination_id is required")
	}
	if r.VoterID == "" {
		return dErrors.New(dErrors.CodeValidation, "voter_id is required")
	}
	return nil
}

// Result aggregates votes for one nomination.
type Result struct {
	NominationID string   `json:"nomination_id"`
	VoteCount    int      `json:"vote_count"`
	Voters       []string `json:"voters"`
}
