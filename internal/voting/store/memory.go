// Package store holds vote persistence. Votes keep insertion order so
// results aggregation is deterministic.
package store

import (
	"context"
	"sync"

	"dundies/internal/voting/models"
	dErrors "dundies/pkg/domain-errors"
)

type voterKey struct {
	nominationID string
	voterID      string
}

type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]models.Vote
	ordered []string
	byVoter map[voterKey]struct{}
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[string]models.Vote),
		byVoter: make(map[voterKey]struct{}),
	}
}

// Insert stores a vote, rejecting a second vote by the same voter on the
// same nomination.
func (s *InMemoryStore) Insert(_ context.Context, v models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voterKey{nominationID: v.NominationID, voterID: v.VoterID}
	if _, dup := s.byVoter[key]; dup {
		return dErrors.New(dErrors.CodeBadRequest, "voter has already voted for this nomination")
	}
	s.byID[v.ID] = v
	s.ordered = append(s.ordered, v.ID)
	s.byVoter[key] = struct{}{}
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Vote, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *InMemoryStore) ListByNomination(ctx context.Context, nominationID string) ([]models.Vote, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Vote, 0, len(all))
	for _, v := range all {
		if v.NominationID == nominationID {
			out = append(out, v)
		}
	}
	return out, nil
}

// CountByNomination returns the vote count for one nomination.
func (s *InMemoryStore) CountByNomination(ctx context.Context, nominationID string) (int, error) {
	votes, err := s.ListByNomination(ctx, nominationID)
	if err != nil {
		return 0, err
	}
	return len(votes), nil
}

// Results aggregates counts and voter names per nomination, in first-vote
// order.
func (s *InMemoryStore) Results(ctx context.Context) ([]models.Result, error) {
	votes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	var results []models.Result
	for _, v := range votes {
		i, ok := index[v.NominationID]
		if !ok {
			i = len(results)
			index[v.NominationID] = i
			results = append(results, models.Result{NominationID: v.NominationID})
		}
		results[i].VoteCount++
		results[i].Voters = append(results[i].Voters, v.VoterName)
	}
	return results, nil
}
