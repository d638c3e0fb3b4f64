package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dundies/internal/audit"
	"dundies/internal/awards"
	"dundies/internal/notifications/models"
)

// Store is the notification registry.
type Store interface {
	Insert(ctx context.Context, n models.Notification) error
	ExistsForWinner(ctx context.Context, winnerID string) (bool, error)
	List(ctx context.Context) ([]models.Notification, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Notification, error)
	Get(ctx context.Context, id string) (models.Notification, error)
	Clear(ctx context.Context) error
}

// WinnerSource supplies the current winner set.
type WinnerSource interface {
	List(ctx context.Context) ([]models.WinnerSnapshot, error)
}

// AuditPublisher emits audit events fire-and-forget.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	store     Store
	winners   WinnerSource
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

func New(store Store, winners WinnerSource, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("notification store is required")
	}
	if winners == nil {
		return nil, fmt.Errorf("winner source is required")
	}
	svc := &Service{store: store, winners: winners, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// SendAll notifies every winner not yet notified. Fetch failure aborts with
// no notifications created; per-winner sends are independent.
func (s *Service) SendAll(ctx context.Context) ([]models.Notification, error) {
	winners, err := s.winners.List(ctx)
	if err != nil {
		return nil, err
	}

	var created []models.Notification
	for _, w := range winners {
		already, err := s.store.ExistsForWinner(ctx, w.ID)
		if err != nil {
			return created, err
		}
		if already {
			continue
		}

		notification := models.Notification{
			ID:           uuid.NewString(),
			WinnerID:     w.ID,
			EmployeeID:   w.EmployeeID,
			EmployeeName: w.EmployeeName,
			Category:     awards.Category(w.Category),
			Message:      congratulation(w),
			Sent:         true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.store.Insert(ctx, notification); err != nil {
			return created, err
		}
		created = append(created, notification)

		if s.publisher != nil {
			s.publisher.Emit(ctx, audit.NotificationSent(
				notification.WinnerID,
				notification.EmployeeID,
				notification.EmployeeName,
				notification.ID,
			))
		}
		s.logger.InfoContext(ctx, "notification sent",
			"notification_id", notification.ID,
			"winner_id", notification.WinnerID,
			"employee_id", notification.EmployeeID,
		)
	}
	return created, nil
}

// SendManual delivers a free-form notification to one employee.
func (s *Service) SendManual(ctx context.Context, req models.ManualNotificationRequest) (models.Notification, error) {
	if err := req.Validate(); err != nil {
		return models.Notification{}, err
	}
	notification := models.Notification{
		ID:           uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Message:      req.Message,
		Sent:         true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, notification); err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}

func (s *Service) List(ctx context.Context, employeeID string) ([]models.Notification, error) {
	if employeeID == "" {
		return s.store.List(ctx)
	}
	return s.store.ListByEmployee(ctx, employeeID)
}

func (s *Service) Get(ctx context.Context, id string) (models.Notification, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func congratulation(w models.WinnerSnapshot) string {
	return fmt.Sprintf(`🏆 Congratulations %s!

You've won the Dundie Award for '%s' with %d votes!

Reason: %s

Your award ceremony will be held at Chili's at 7 PM. Drinks are on Michael Scott!

- The Dundie Awards Committee`, w.EmployeeName, w.Category, w.TotalVotes, w.Reason)
}
