package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	// Registers the postgres driver.
	_ "github.com/lib/pq"

	"dundies/internal/audit"
	"dundies/internal/security/models"
	dErrors "dundies/pkg/domain-errors"
)

// PostgresLogStore persists audit-log entries. The UNIQUE constraint on
// event_id plus ON CONFLICT DO NOTHING makes Insert idempotent at the
// database, mirroring the memory store's no-op on duplicates.
type PostgresLogStore struct {
	db *sql.DB
}

func NewPostgresLog(db *sql.DB) *PostgresLogStore {
	return &PostgresLogStore{db: db}
}

// OpenPostgres connects and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresLogStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "open postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "postgres ping failed")
	}
	store := NewPostgresLog(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the audit_logs table when absent.
func (s *PostgresLogStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS audit_logs (
			id                  TEXT PRIMARY KEY,
			event_id            TEXT NOT NULL UNIQUE,
			event_type          TEXT NOT NULL,
			service_name        TEXT NOT NULL,
			user_id             TEXT NOT NULL DEFAULT '',
			user_name           TEXT NOT NULL DEFAULT '',
			details             JSONB,
			risk_score          INT NOT NULL,
			investigated        BOOLEAN NOT NULL DEFAULT FALSE,
			investigation_notes TEXT NOT NULL DEFAULT '',
			investigated_at     TIMESTAMPTZ,
			created_at          TIMESTAMPTZ NOT NULL
		)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create audit_logs table")
	}
	return nil
}

func (s *PostgresLogStore) Insert(ctx context.Context, entry models.LogEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal details")
	}
	const query = `
		INSERT INTO audit_logs (
			id, event_id, event_type, service_name, user_id, user_name,
			details, risk_score, investigated, investigation_notes,
			investigated_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (event_id) DO NOTHING`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID, entry.EventID, string(entry.EventType), entry.ServiceName,
		entry.UserID, entry.UserName, details, entry.RiskScore,
		entry.Investigated, entry.InvestigationNotes, entry.InvestigatedAt,
		entry.CreatedAt,
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "insert audit log")
	}
	return nil
}

func (s *PostgresLogStore) List(ctx context.Context) ([]models.LogEntry, error) {
	const query = `
		SELECT id, event_id, event_type, service_name, user_id, user_name,
		       details, risk_score, investigated, investigation_notes,
		       investigated_at, created_at
		FROM audit_logs
		ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list audit logs")
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterate audit logs")
	}
	return entries, nil
}

func (s *PostgresLogStore) Get(ctx context.Context, id string) (models.LogEntry, error) {
	const query = `
		SELECT id, event_id, event_type, service_name, user_id, user_name,
		       details, risk_score, investigated, investigation_notes,
		       investigated_at, created_at
		FROM audit_logs
		WHERE id = $1`
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LogEntry{}, dErrors.Newf(dErrors.CodeNotFound, "audit log %s not found", id)
	}
	return entry, err
}

func (s *PostgresLogStore) Investigate(ctx context.Context, id, notes string, at time.Time) (models.LogEntry, error) {
	const query = `
		UPDATE audit_logs
		SET investigated = TRUE, investigation_notes = $2, investigated_at = $3
		WHERE id = $1
		RETURNING id, event_id, event_type, service_name, user_id, user_name,
		          details, risk_score, investigated, investigation_notes,
		          investigated_at, created_at`
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, id, notes, at))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LogEntry{}, dErrors.Newf(dErrors.CodeNotFound, "audit log %s not found", id)
	}
	return entry, err
}

// Clear wipes the table. Testing aid.
func (s *PostgresLogStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE audit_logs`); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "clear audit logs")
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresLogStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.LogEntry, error) {
	var (
		entry          models.LogEntry
		eventType      string
		details        []byte
		investigatedAt sql.NullTime
	)
	err := row.Scan(
		&entry.ID, &entry.EventID, &eventType, &entry.ServiceName,
		&entry.UserID, &entry.UserName, &details, &entry.RiskScore,
		&entry.Investigated, &entry.InvestigationNotes,
		&investigatedAt, &entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LogEntry{}, err
		}
		return models.LogEntry{}, dErrors.Wrap(err, dErrors.CodeInternal, "scan audit log")
	}
	entry.EventType = audit.EventType(eventType)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &entry.Details); err != nil {
			return models.LogEntry{}, dErrors.Wrap(err, dErrors.CodeInternal, "unmarshal details")
		}
	}
	if investigatedAt.Valid {
		t := investigatedAt.Time
		entry.InvestigatedAt = &t
	}
	return entry, nil
}
