package store

import (
	"context"
	"sync"

	"dundies/internal/notifications/models"
	dErrors "dundies/pkg/domain-errors"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]models.Notification
	ordered  []string
	byWinner map[string]string
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:     make(map[string]models.Notification),
		byWinner: make(map[string]string),
	}
}

func (s *InMemoryStore) Insert(_ context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[n.ID] = n
	s.ordered = append(s.ordered, n.ID)
	if n.WinnerID != "" {
		s.byWinner[n.WinnerID] = n.ID
	}
	return nil
}

// ExistsForWinner reports whether a winner has already been notified.
func (s *InMemoryStore) ExistsForWinner(_ context.Context, winnerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byWinner[winnerID]
	return ok, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *InMemoryStore) ListByEmployee(ctx context.Context, employeeID string) ([]models.Notification, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(all))
	for _, n := range all {
		if n.EmployeeID == employeeID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.byID[id]; ok {
		return n, nil
	}
	return models.Notification{}, dErrors.Newf(dErrors.CodeNotFound, "notification %s not found", id)
}

// Clear wipes the store. Testing aid.
func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]models.Notification)
	s.ordered = nil
	s.byWinner = make(map[string]string)
	return nil
}
