package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dundies/internal/notifications/models"
	"dundies/internal/notifications/service"
	"dundies/internal/platform/middleware"
	"dundies/internal/transport/http/shared"
)

// Handler is the thin HTTP layer for the notifications service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the notification routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/notifications/send", h.handleSendAll)
	r.Post("/notifications/manual", h.handleSendManual)
	r.Get("/notifications", h.handleList)
	r.Get("/notifications/{id}", h.handleGet)
	r.Delete("/notifications", h.handleClear)
}

func (h *Handler) handleSendAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	created, err := h.service.SendAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "notification send failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("Sent %d notifications", len(created)),
		"notifications": created,
	})
}

func (h *Handler) handleSendManual(w http.ResponseWriter, r *http.Request) {
	var req models.ManualNotificationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	notification, err := h.service.SendManual(r.Context(), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, notification)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.List(r.Context(), r.URL.Query().Get("employee_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, notifications)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	notification, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, notification)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": "All notifications cleared"})
}
