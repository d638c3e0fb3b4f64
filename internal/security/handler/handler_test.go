package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"dundies/internal/audit"
	"dundies/internal/security/models"
	"dundies/internal/security/service"
	"dundies/internal/security/store"
)

type HandlerSuite struct {
	suite.Suite
	service *service.Service
	router  chi.Router
}

func (s *HandlerSuite) SetupTest() {
	svc, err := service.New(store.NewMemoryLog(), store.NewMemoryDedup())
	require.NoError(s.T(), err)
	s.service = svc

	s.router = chi.NewRouter()
	New(svc).Register(s.router)
}

func (s *HandlerSuite) request(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) ingest(event audit.Event) {
	require.NoError(s.T(), s.service.Ingest(context.Background(), event))
}

func (s *HandlerSuite) TestLogsEndpoint() {
	s.ingest(audit.Event{ID: uuid.NewString(), EventType: audit.EventVoteCast, ServiceName: "voting", UserID: "emp_001"})
	s.ingest(audit.Event{ID: uuid.NewString(), EventType: audit.EventNominationSubmitted, ServiceName: "nominations", UserID: "emp_002"})

	s.Run("all", func() {
		rec := s.request(http.MethodGet, "/audit/logs", "")
		require.Equal(s.T(), http.StatusOK, rec.Code)
		var entries []models.LogEntry
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &entries))
		assert.Len(s.T(), entries, 2)
	})

	s.Run("filtered", func() {
		rec := s.request(http.MethodGet, "/audit/logs?event_type=vote_cast&user_id=emp_001", "")
		require.Equal(s.T(), http.StatusOK, rec.Code)
		var entries []models.LogEntry
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &entries))
		require.Len(s.T(), entries, 1)
		assert.Equal(s.T(), audit.EventVoteCast, entries[0].EventType)
	})

	s.Run("bad min_risk_score", func() {
		rec := s.request(http.MethodGet, "/audit/logs?min_risk_score=high", "")
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("bad investigated flag", func() {
		rec := s.request(http.MethodGet, "/audit/logs?investigated=maybe", "")
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestGetEndpoint() {
	s.ingest(audit.Event{ID: uuid.NewString(), EventType: audit.EventVoteCast, ServiceName: "voting", UserID: "emp_001"})

	entries, err := s.service.Logs(context.Background(), models.Filter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 1)

	rec := s.request(http.MethodGet, "/audit/logs/"+entries[0].ID, "")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var entry models.LogEntry
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(s.T(), entries[0].EventID, entry.EventID)

	s.Run("not found", func() {
		rec := s.request(http.MethodGet, "/audit/logs/missing", "")
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestInvestigateEndpoint() {
	s.ingest(audit.Event{ID: uuid.NewString(), EventType: audit.EventSuspiciousActivity, ServiceName: "voting"})

	entries, err := s.service.Logs(context.Background(), models.Filter{})
	require.NoError(s.T(), err)
	logID := entries[0].ID

	rec := s.request(http.MethodPost, "/audit/logs/"+logID+"/investigate", `{"investigation_notes":"reviewed by Toby"}`)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp struct {
		Message string          `json:"message"`
		Log     models.LogEntry `json:"log"`
	}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Log.Investigated)
	assert.Equal(s.T(), "reviewed by Toby", resp.Log.InvestigationNotes)

	s.Run("missing notes", func() {
		rec := s.request(http.MethodPost, "/audit/logs/"+logID+"/investigate", `{}`)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown id", func() {
		rec := s.request(http.MethodPost, "/audit/logs/missing/investigate", `{"investigation_notes":"n"}`)
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestSuspiciousEndpoint() {
	s.ingest(audit.Event{ID: uuid.NewString(), EventType: audit.EventSuspiciousActivity, UserID: "emp_006"})
	s.ingest(audit.Event{ID: uuid.NewString(), EventType: audit.EventNotificationSent, UserID: "emp_001"})

	rec := s.request(http.MethodGet, "/audit/suspicious", "")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var entries []models.LogEntry
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(s.T(), entries, 1)
	assert.Equal(s.T(), audit.EventSuspiciousActivity, entries[0].EventType)

	s.Run("explicit zero threshold", func() {
		rec := s.request(http.MethodGet, "/audit/suspicious?min_risk_score=0", "")
		require.Equal(s.T(), http.StatusOK, rec.Code)
		var entries []models.LogEntry
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &entries))
		assert.Len(s.T(), entries, 2)
	})
}

func (s *HandlerSuite) TestMetricsEndpoint() {
	s.ingest(audit.Event{ID: uuid.NewString(), EventType: audit.EventSuspiciousActivity, UserID: "emp_006"})

	rec := s.request(http.MethodGet, "/audit/metrics", "")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var metrics models.SecurityMetrics
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(s.T(), 1, metrics.TotalEvents)
	assert.Equal(s.T(), 1, metrics.HighRiskEvents)
}

func (s *HandlerSuite) TestTestEventEndpoint() {
	rec := s.request(http.MethodPost, "/audit/test-event", `{"event_type":"vote_cast","user_id":"emp_001"}`)
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	var resp struct {
		EventID string `json:"event_id"`
	}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(s.T(), resp.EventID)

	entries, err := s.service.Logs(context.Background(), models.Filter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 1)
	assert.Equal(s.T(), resp.EventID, entries[0].EventID)

	s.Run("caller-supplied id is kept and deduplicated", func() {
		body := `{"event_type":"vote_cast","user_id":"emp_002","id":"evt_injected"}`

		rec := s.request(http.MethodPost, "/audit/test-event", body)
		require.Equal(s.T(), http.StatusCreated, rec.Code)
		var resp struct {
			EventID string `json:"event_id"`
		}
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(s.T(), "evt_injected", resp.EventID)

		// Re-injecting the same id is absorbed, not duplicated.
		rec = s.request(http.MethodPost, "/audit/test-event", body)
		require.Equal(s.T(), http.StatusCreated, rec.Code)

		entries, err := s.service.Logs(context.Background(), models.Filter{UserID: "emp_002"})
		require.NoError(s.T(), err)
		assert.Len(s.T(), entries, 1)
	})

	s.Run("unknown event type", func() {
		rec := s.request(http.MethodPost, "/audit/test-event", `{"event_type":"stapler_in_jello"}`)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("missing event type", func() {
		rec := s.request(http.MethodPost, "/audit/test-event", `{}`)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestClearEndpoint() {
	s.ingest(audit.Event{ID: uuid.NewString(), EventType: audit.EventVoteCast, UserID: "emp_001"})

	rec := s.request(http.MethodDelete, "/audit/logs", "")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	entries, err := s.service.Logs(context.Background(), models.Filter{})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), entries)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
