package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dundies/internal/nominations/models"
	"dundies/internal/nominations/service"
	"dundies/internal/platform/middleware"
	"dundies/internal/transport/http/shared"
)

// Handler is the thin HTTP layer for the nominations service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the nomination routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/employees", h.handleListEmployees)
	r.Post("/nominations", h.handleCreate)
	r.Get("/nominations", h.handleList)
	r.Get("/nominations/{id}", h.handleGet)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.service.Employees(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateNominationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	nomination, err := h.service.Create(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "nomination create failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, nomination)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	nominations, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nominations)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	nomination, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nomination)
}
