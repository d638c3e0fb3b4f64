package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dundies/internal/audit"
	"dundies/internal/security/models"
	"dundies/internal/security/service"
	"dundies/internal/transport/http/shared"
	dErrors "dundies/pkg/domain-errors"
)

// Handler is the thin HTTP layer for the security service.
type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Register mounts the audit-log routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/logs", h.handleLogs)
	r.Get("/audit/logs/{id}", h.handleGet)
	r.Post("/audit/logs/{id}/investigate", h.handleInvestigate)
	r.Get("/audit/suspicious", h.handleSuspicious)
	r.Get("/audit/metrics", h.handleMetrics)
	r.Post("/audit/test-event", h.handleTestEvent)
	r.Delete("/audit/logs", h.handleClear)
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.Filter{
		EventType:   audit.EventType(query.Get("event_type")),
		ServiceName: query.Get("service_name"),
		UserID:      query.Get("user_id"),
	}

	if raw := query.Get("min_risk_score"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "min_risk_score must be an integer"))
			return
		}
		filter.MinRiskScore = &min
	}
	if raw := query.Get("investigated"); raw != "" {
		investigated, err := strconv.ParseBool(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "investigated must be a boolean"))
			return
		}
		filter.Investigated = &investigated
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
			return
		}
		filter.Limit = limit
	}

	entries, err := h.service.Logs(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleInvestigate(w http.ResponseWriter, r *http.Request) {
	var req models.InvestigateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	entry, err := h.service.Investigate(r.Context(), chi.URLParam(r, "id"), req.InvestigationNotes)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Event marked as investigated",
		"log":     entry,
	})
}

func (h *Handler) handleSuspicious(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var minRisk *int
	var limit int
	if raw := query.Get("min_risk_score"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "min_risk_score must be an integer"))
			return
		}
		// An explicit zero is a real threshold, not "use the default".
		minRisk = &parsed
	}
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.Suspicious(r.Context(), minRisk, limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.Metrics(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, metrics)
}

// testEventRequest injects a synthetic event straight into the pipeline,
// bypassing the bus. Development and demo aid. A caller-supplied id is kept
// so deduplication can be exercised without a live bus; one is generated
// when absent.
type testEventRequest struct {
	ID          string          `json:"id"`
	EventType   audit.EventType `json:"event_type"`
	ServiceName string          `json:"service_name"`
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name"`
	Details     map[string]any  `json:"details"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (r *testEventRequest) validate() error {
	if r.EventType == "" {
		return dErrors.New(dErrors.CodeValidation, "event_type is required")
	}
	if !r.EventType.Known() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown event_type %q", r.EventType)
	}
	return nil
}

func (h *Handler) handleTestEvent(w http.ResponseWriter, r *http.Request) {
	var req testEventRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	serviceName := req.ServiceName
	if serviceName == "" {
		serviceName = "security"
	}
	eventID := req.ID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	event := audit.Event{
		ID:          eventID,
		EventType:   req.EventType,
		ServiceName: serviceName,
		UserID:      req.UserID,
		UserName:    req.UserName,
		Details:     req.Details,
		CreatedAt:   createdAt,
	}

	if err := h.service.Ingest(r.Context(), event); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"message":  "Test event ingested",
		"event_id": event.ID,
	})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Audit logs cleared",
	})
}
