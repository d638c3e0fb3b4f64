// Package store holds nomination persistence. The in-memory store keeps an
// ordered slice next to the index map: List must return insertion order, not
// map iteration order, so winner tie-breaks stay reproducible.
package store

import (
	"context"
	"sync"

	"dundies/internal/awards"
	"dundies/internal/nominations/models"
	dErrors "dundies/pkg/domain-errors"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]models.Nomination
	ordered []string
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{byID: make(map[string]models.Nomination)}
}

func (s *InMemoryStore) Insert(_ context.Context, n models.Nomination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[n.ID]; exists {
		return dErrors.Newf(dErrors.CodeConflict, "nomination %s already exists", n.ID)
	}
	s.byID[n.ID] = n
	s.ordered = append(s.ordered, n.ID)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]models.Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Nomination, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *InMemoryStore) ListByCategory(ctx context.Context, category awards.Category) ([]models.Nomination, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Nomination, 0, len(all))
	for _, n := range all {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (models.Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.byID[id]; ok {
		return n, nil
	}
	return models.Nomination{}, dErrors.Newf(dErrors.CodeNotFound, "nomination %s not found", id)
}
