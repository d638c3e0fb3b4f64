// Package service implements the security pipeline: idempotent ingest of
// audit events, risk scoring, the queryable log, and the investigation
// workflow.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"dundies/internal/audit"
	"dundies/internal/security/models"
	"dundies/internal/security/scorer"
	dErrors "dundies/pkg/domain-errors"
)

// Risk thresholds. highRiskThreshold drives alerts and the metrics
// high-risk count; pendingThreshold marks entries that still warrant an
// investigation; suspiciousDefaultMin is the default floor for the
// suspicious-activity view.
const (
	highRiskThreshold    = 70
	pendingThreshold     = 50
	suspiciousDefaultMin = 50
)

// LogStore is the audit-log registry.
type LogStore interface {
	Insert(ctx context.Context, entry models.LogEntry) error
	List(ctx context.Context) ([]models.LogEntry, error)
	Get(ctx context.Context, id string) (models.LogEntry, error)
	Investigate(ctx context.Context, id, notes string, at time.Time) (models.LogEntry, error)
	Clear(ctx context.Context) error
}

// DedupStore tracks which event IDs have already been ingested.
// MarkProcessed must be atomic: exactly one caller per event ID sees true.
type DedupStore interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Clear(ctx context.Context) error
}

type Service struct {
	store   LogStore
	dedup   DedupStore
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(metrics *Metrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

func New(store LogStore, dedup DedupStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("log store is required")
	}
	if dedup == nil {
		return nil, fmt.Errorf("dedup store is required")
	}
	svc := &Service{store: store, dedup: dedup, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Ingest materializes one audit event into the log. Redeliveries of an
// already-processed event ID are a silent success, so at-least-once delivery
// from the bus produces exactly one log entry per event.
func (s *Service) Ingest(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "event id is required")
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	entry := models.LogEntry{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		EventType:   event.EventType,
		ServiceName: event.ServiceName,
		UserID:      event.UserID,
		UserName:    event.UserName,
		Details:     event.Details,
		RiskScore:   scorer.Score(event),
		CreatedAt:   createdAt,
	}

	// Insert before marking processed: a failed insert must leave the event
	// eligible for redelivery. The log stores are idempotent on event_id, so
	// a duplicate delivery racing past the dedup check is a no-op here.
	if err := s.store.Insert(ctx, entry); err != nil {
		return err
	}

	first, err := s.dedup.MarkProcessed(ctx, event.ID)
	if err != nil {
		return err
	}
	if !first {
		s.logger.DebugContext(ctx, "duplicate audit event skipped", "event_id", event.ID)
		if s.metrics != nil {
			s.metrics.Deduplicated.Inc()
		}
		return nil
	}

	if s.metrics != nil {
		s.metrics.Ingested.WithLabelValues(string(entry.EventType)).Inc()
	}
	if entry.RiskScore >= highRiskThreshold {
		if s.metrics != nil {
			s.metrics.HighRisk.Inc()
		}
		s.logger.WarnContext(ctx, "high risk audit event",
			"log_id", entry.ID,
			"event_id", entry.EventID,
			"event_type", entry.EventType,
			"service_name", entry.ServiceName,
			"risk_score", entry.RiskScore,
		)
	}
	return nil
}

// Logs returns log entries matching the filter, newest first. Filter fields
// compose with AND; the limit is clamped to [1, 1000] and defaults to 100.
func (s *Service) Logs(ctx context.Context, filter models.Filter) ([]models.LogEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.LogEntry, 0, len(entries))
	for _, e := range entries {
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if filter.ServiceName != "" && e.ServiceName != filter.ServiceName {
			continue
		}
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.MinRiskScore != nil && e.RiskScore < *filter.MinRiskScore {
			continue
		}
		if filter.Investigated != nil && e.Investigated != *filter.Investigated {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.LogEntry, error) {
	return s.store.Get(ctx, id)
}

// Investigate marks an entry investigated and records the notes. Calling it
// again on the same entry overwrites the earlier notes and timestamp.
func (s *Service) Investigate(ctx context.Context, id, notes string) (models.LogEntry, error) {
	entry, err := s.store.Investigate(ctx, id, notes, time.Now().UTC())
	if err != nil {
		return models.LogEntry{}, err
	}
	s.logger.InfoContext(ctx, "audit log investigated",
		"log_id", entry.ID,
		"event_type", entry.EventType,
		"risk_score", entry.RiskScore,
	)
	return entry, nil
}

// Suspicious returns non-investigated entries with risk at or above minRisk,
// highest risk first. A nil minRisk means the caller did not set a threshold
// and defaults to 50; an explicit value (zero included) is clamped to
// [0, 100]. The limit defaults to 50 and is clamped to [1, 500].
func (s *Service) Suspicious(ctx context.Context, minRisk *int, limit int) ([]models.LogEntry, error) {
	threshold := suspiciousDefaultMin
	if minRisk != nil {
		threshold = *minRisk
		if threshold < 0 {
			threshold = 0
		}
		if threshold > 100 {
			threshold = 100
		}
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	suspicious := make([]models.LogEntry, 0)
	for _, e := range entries {
		if !e.Investigated && e.RiskScore >= threshold {
			suspicious = append(suspicious, e)
		}
	}
	sort.SliceStable(suspicious, func(i, j int) bool {
		return suspicious[i].RiskScore > suspicious[j].RiskScore
	})
	if len(suspicious) > limit {
		suspicious = suspicious[:limit]
	}
	return suspicious, nil
}

// Metrics aggregates the full log into the dashboard view. Recent suspicious
// activity is the top ten entries by risk from the last 24 hours with risk
// of at least 60, investigated or not.
func (s *Service) Metrics(ctx context.Context) (models.SecurityMetrics, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return models.SecurityMetrics{}, err
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	metrics := models.SecurityMetrics{
		EventsByType:             make(map[string]int),
		RecentSuspiciousActivity: []models.LogEntry{},
	}
	var recent []models.LogEntry
	for _, e := range entries {
		metrics.TotalEvents++
		metrics.EventsByType[string(e.EventType)]++
		if e.RiskScore >= highRiskThreshold {
			metrics.HighRiskEvents++
		}
		if e.Investigated {
			metrics.InvestigatedEvents++
		} else if e.RiskScore >= pendingThreshold {
			metrics.PendingInvestigations++
		}
		if e.RiskScore >= 60 && e.CreatedAt.After(cutoff) {
			recent = append(recent, e)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].RiskScore > recent[j].RiskScore
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}
	metrics.RecentSuspiciousActivity = append(metrics.RecentSuspiciousActivity, recent...)
	return metrics, nil
}

// Clear wipes the log and the dedup state. Testing aid.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	return s.dedup.Clear(ctx)
}
