package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dundies/internal/platform/middleware"
	"dundies/internal/transport/http/shared"
	"dundies/internal/winners/service"
)

// Handler is the thin HTTP layer for the winners service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the winner routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/winners/calculate", h.handleCalculate)
	r.Get("/winners", h.handleList)
	r.Get("/winners/{id}", h.handleGet)
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	winners, err := h.service.Resolve(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "winner resolution failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Calculated %d winners", len(winners)),
		"winners": winners,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	winners, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, winners)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	winner, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, winner)
}
