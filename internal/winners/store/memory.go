// Package store holds the winner registry. The registry invariant is at most
// one winner per category; ReplaceBatch enforces it under a single lock
// acquisition so readers never observe two winners for one category.
package store

import (
	"context"
	"sync"

	"dundies/internal/awards"
	"dundies/internal/winners/models"
	dErrors "dundies/pkg/domain-errors"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]models.Winner
	ordered []string
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{byID: make(map[string]models.Winner)}
}

// ReplaceBatch applies one resolution pass atomically: for every incoming
// winner the existing winner of that category (if any) is removed, then the
// new record is inserted. Replaced IDs are never reused.
func (s *InMemoryStore) ReplaceBatch(_ context.Context, winners []models.Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range winners {
		for i, id := range s.ordered {
			if s.byID[id].Category == w.Category {
				delete(s.byID, id)
				s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
				break
			}
		}
		s.byID[w.ID] = w
		s.ordered = append(s.ordered, w.ID)
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]models.Winner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Winner, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *InMemoryStore) ListByCategory(ctx context.Context, category awards.Category) ([]models.Winner, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Winner, 0, 1)
	for _, w := range all {
		if w.Category == category {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (models.Winner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.byID[id]; ok {
		return w, nil
	}
	return models.Winner{}, dErrors.Newf(dErrors.CodeNotFound, "winner %s not found", id)
}
