// Package store holds audit-log persistence and the processed-event dedup
// stores. Memory backends serve development and tests; postgres and redis
// variants back real deployments.
package store

import (
	"context"
	"sync"
	"time"

	"dundies/internal/security/models"
	dErrors "dundies/pkg/domain-errors"
)

type InMemoryLogStore struct {
	mu        sync.RWMutex
	byID      map[string]models.LogEntry
	byEventID map[string]string
	ordered   []string
}

func NewMemoryLog() *InMemoryLogStore {
	return &InMemoryLogStore{
		byID:      make(map[string]models.LogEntry),
		byEventID: make(map[string]string),
	}
}

// Insert appends an entry. A second entry for the same source event is a
// silent no-op so insertion stays idempotent even if dedup raced.
func (s *InMemoryLogStore) Insert(_ context.Context, entry models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byEventID[entry.EventID]; dup {
		return nil
	}
	s.byID[entry.ID] = entry
	s.byEventID[entry.EventID] = entry.ID
	s.ordered = append(s.ordered, entry.ID)
	return nil
}

func (s *InMemoryLogStore) List(_ context.Context) ([]models.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LogEntry, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *InMemoryLogStore) Get(_ context.Context, id string) (models.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.byID[id]; ok {
		return entry, nil
	}
	return models.LogEntry{}, dErrors.Newf(dErrors.CodeNotFound, "audit log %s not found", id)
}

// Investigate applies the investigation transition under the store lock.
// Re-investigation overwrites notes and timestamp; see the service docs.
func (s *InMemoryLogStore) Investigate(_ context.Context, id, notes string, at time.Time) (models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.byID[id]
	if !ok {
		return models.LogEntry{}, dErrors.Newf(dErrors.CodeNotFound, "audit log %s not found", id)
	}
	entry.Investigated = true
	entry.InvestigationNotes = notes
	entry.InvestigatedAt = &at
	s.byID[id] = entry
	return entry, nil
}

// Clear wipes the store. Testing aid.
func (s *InMemoryLogStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]models.LogEntry)
	s.byEventID = make(map[string]string)
	s.ordered = nil
	return nil
}

// InMemoryDedupStore tracks processed event IDs.
type InMemoryDedupStore struct {
	mu        sync.Mutex
	processed map[string]struct{}
}

func NewMemoryDedup() *InMemoryDedupStore {
	return &InMemoryDedupStore{processed: make(map[string]struct{})}
}

// MarkProcessed records the event ID and reports whether this was the first
// time it was seen.
func (s *InMemoryDedupStore) MarkProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.processed[eventID]; seen {
		return false, nil
	}
	s.processed[eventID] = struct{}{}
	return true, nil
}

// Clear forgets all processed IDs. Testing aid.
func (s *InMemoryDedupStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed = make(map[string]struct{})
	return nil
}
