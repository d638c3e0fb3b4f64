package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dundies/internal/audit"
	"dundies/internal/awards"
	"dundies/internal/winners/models"
)

// Store is the winner registry. Mutation happens only through ReplaceBatch.
type Store interface {
	ReplaceBatch(ctx context.Context, winners []models.Winner) error
	List(ctx context.Context) ([]models.Winner, error)
	ListByCategory(ctx context.Context, category awards.Category) ([]models.Winner, error)
	Get(ctx context.Context, id string) (models.Winner, error)
}

// NominationSource supplies the full nomination set in stable order.
type NominationSource interface {
	List(ctx context.Context) ([]models.NominationSnapshot, error)
}

// VoteSource supplies the point-in-time vote counts per nomination.
type VoteSource interface {
	ResultsByNomination(ctx context.Context) (map[string]int, error)
}

// AuditPublisher emits audit events fire-and-forget.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	store       Store
	nominations NominationSource
	votes       VoteSource
	publisher   AuditPublisher
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func New(store Store, nominations NominationSource, votes VoteSource, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("winner store is required")
	}
	if nominations == nil {
		return nil, fmt.Errorf("nomination source is required")
	}
	if votes == nil {
		return nil, fmt.Errorf("vote source is required")
	}
	svc := &Service{store: store, nominations: nominations, votes: votes, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Resolve computes one winner per category from the current snapshots and
// replaces the registry entries for those categories.
//
// Selection is a strict maximum over each category's nominations, counting 0
// for nominations absent from the vote snapshot. Ties go to the nomination
// encountered first in retrieval order. A category with no votes produces no
// winner. If either snapshot fetch fails the registry is left untouched.
func (s *Service) Resolve(ctx context.Context) ([]models.Winner, error) {
	nominations, err := s.nominations.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.votes.ResultsByNomination(ctx)
	if err != nil {
		return nil, err
	}

	// Group by category, preserving first-seen category order.
	var categoryOrder []string
	byCategory := make(map[string][]models.NominationSnapshot)
	for _, n := range nominations {
		if _, seen := byCategory[n.Category]; !seen {
			categoryOrder = append(categoryOrder, n.Category)
		}
		byCategory[n.Category] = append(byCategory[n.Category], n)
	}

	now := time.Now().UTC()
	var winners []models.Winner
	for _, rawCategory := range categoryOrder {
		var best *models.NominationSnapshot
		highest := -1
		for i := range byCategory[rawCategory] {
			n := &byCategory[rawCategory][i]
			if count := counts[n.ID]; count > highest {
				highest = count
				best = n
			}
		}
		if best == nil || highest <= 0 {
			continue
		}

		category, err := awards.Parse(rawCategory)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping nomination with unknown category",
				"category", rawCategory,
				"nomination_id", best.ID,
			)
			continue
		}

		winners = append(winners, models.Winner{
			ID:           uuid.NewString(),
			NominationID: best.ID,
			EmployeeID:   best.EmployeeID,
			EmployeeName: best.EmployeeName,
			Category:     category,
			TotalVotes:   highest,
			Reason:       best.Reason,
			CreatedAt:    now,
		})
	}

	if err := s.store.ReplaceBatch(ctx, winners); err != nil {
		return nil, err
	}

	for _, w := range winners {
		if s.publisher != nil {
			s.publisher.Emit(ctx, audit.WinnerCalculated(w.Category.String(), w.ID, w.TotalVotes))
		}
		s.logger.InfoContext(ctx, "winner resolved",
			"winner_id", w.ID,
			"category", w.Category,
			"total_votes", w.TotalVotes,
		)
	}
	return winners, nil
}

// List returns current winners, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]models.Winner, error) {
	if category == "" {
		return s.store.List(ctx)
	}
	parsed, err := awards.Parse(category)
	if err != nil {
		return nil, err
	}
	return s.store.ListByCategory(ctx, parsed)
}

func (s *Service) Get(ctx context.Context, id string) (models.Winner, error) {
	return s.store.Get(ctx, id)
}
