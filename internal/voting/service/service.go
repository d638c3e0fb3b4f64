package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dundies/internal/audit"
	"dundies/internal/employees"
	"dundies/internal/voting/models"
)

// Store is the vote registry consumed by the service.
type Store interface {
	Insert(ctx context.Context, v models.Vote) error
	List(ctx context.Context) ([]models.Vote, error)
	ListByNomination(ctx context.Context, nominationID string) ([]models.Vote, error)
	CountByNomination(ctx context.Context, nominationID string) (int, error)
	Results(ctx context.Context) ([]models.Result, error)
}

// NominationChecker verifies a nomination exists upstream.
type NominationChecker interface {
	Exists(ctx context.Context, nominationID string) error
}

// AuditPublisher emits audit events fire-and-forget.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	store       Store
	nominations NominationChecker
	directory   *employees.Directory
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

func New(store Store, nominations NominationChecker, directory *employees.Directory, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("vote store is required")
	}
	if nominations == nil {
		return nil, fmt.Errorf("nomination checker is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("employee directory is required")
	}
	svc := &Service{store: store, nominations: nominations, directory: directory, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Cast records one vote. The nomination must exist upstream, the voter must
// be in the directory, and a voter votes at most once per nomination.
func (s *Service) Cast(ctx context.Context, req models.CreateVoteRequest) (models.Vote, error) {
	if err := req.Validate(); err != nil {
		return models.Vote{}, err
	}

	if err := s.nominations.Exists(ctx, req.NominationID); err != nil {
		return models.Vote{}, err
	}

	voter, err := s.directory.Get(ctx, req.VoterID)
	if err != nil {
		return models.Vote{}, err
	}

	vote := models.Vote{
		ID:           uuid.NewString(),
		NominationID: req.NominationID,
		VoterID:      voter.ID,
		VoterName:    voter.Name,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, vote); err != nil {
		return models.Vote{}, err
	}

	if s.publisher != nil {
		s.publisher.Emit(ctx, audit.VoteCast(vote.VoterID, vote.VoterName, vote.NominationID, vote.ID))
	}

	s.logger.InfoContext(ctx, "vote cast",
		"vote_id", vote.ID,
		"nomination_id", vote.NominationID,
		"voter_id", vote.VoterID,
	)
	return vote, nil
}

func (s *Service) List(ctx context.Context, nominationID string) ([]models.Vote, error) {
	if nominationID == "" {
		return s.store.List(ctx)
	}
	return s.store.ListByNomination(ctx, nominationID)
}

func (s *Service) Count(ctx context.Context, nominationID string) (int, error) {
	return s.store.CountByNomination(ctx, nominationID)
}

func (s *Service) Results(ctx context.Context) ([]models.Result, error) {
	return s.store.Results(ctx)
}
