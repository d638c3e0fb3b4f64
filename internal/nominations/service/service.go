package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dundies/internal/audit"
	"dundies/internal/awards"
	"dundies/internal/employees"
	"dundies/internal/nominations/models"
)

// Store is the nomination registry consumed by the service.
type Store interface {
	Insert(ctx context.Context, n models.Nomination) error
	List(ctx context.Context) ([]models.Nomination, error)
	ListByCategory(ctx context.Context, category awards.Category) ([]models.Nomination, error)
	Get(ctx context.Context, id string) (models.Nomination, error)
}

// AuditPublisher emits audit events fire-and-forget.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	store     Store
	directory *employees.Directory
	publisher AuditPublisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func New(store Store, directory *employees.Directory, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("nomination store is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("employee directory is required")
	}
	svc := &Service{store: store, directory: directory, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create validates the request, resolves names from the directory, and stores
// the nomination. The audit emission cannot fail the create.
func (s *Service) Create(ctx context.Context, req models.CreateNominationRequest) (models.Nomination, error) {
	category, err := req.Validate()
	if err != nil {
		return models.Nomination{}, err
	}

	employee, err := s.directory.Get(ctx, req.EmployeeID)
	if err != nil {
		return models.Nomination{}, err
	}
	nominator, err := s.directory.Get(ctx, req.NominatorID)
	if err != nil {
		return models.Nomination{}, err
	}

	nomination := models.Nomination{
		ID:            uuid.NewString(),
		EmployeeID:    employee.ID,
		EmployeeName:  employee.Name,
		Category:      category,
		NominatorID:   nominator.ID,
		NominatorName: nominator.Name,
		Reason:        req.Reason,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, nomination); err != nil {
		return models.Nomination{}, err
	}

	if s.publisher != nil {
		s.publisher.Emit(ctx, audit.NominationSubmitted(
			nomination.NominatorID,
			nomination.NominatorName,
			nomination.EmployeeID,
			nomination.Category.String(),
			nomination.ID,
		))
	}

	s.logger.InfoContext(ctx, "nomination created",
		"nomination_id", nomination.ID,
		"category", nomination.Category,
		"employee_id", nomination.EmployeeID,
	)
	return nomination, nil
}

// List returns nominations in creation order, optionally category-filtered.
func (s *Service) List(ctx context.Context, category string) ([]models.Nomination, error) {
	if category == "" {
		return s.store.List(ctx)
	}
	parsed, err := awards.Parse(category)
	if err != nil {
		return nil, err
	}
	return s.store.ListByCategory(ctx, parsed)
}

func (s *Service) Get(ctx context.Context, id string) (models.Nomination, error) {
	return s.store.Get(ctx, id)
}

// Employees lists the directory for nominee selection.
func (s *Service) Employees(ctx context.Context) []employees.Employee {
	return s.directory.List(ctx)
}
