package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dundies/internal/platform/middleware"
	"dundies/internal/transport/http/shared"
	"dundies/internal/voting/models"
	"dundies/internal/voting/service"
)

// Handler is the thin HTTP layer for the voting service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the voting routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/votes", h.handleCast)
	r.Get("/votes", h.handleList)
	r.Get("/votes/count/{nominationID}", h.handleCount)
	r.Get("/votes/results", h.handleResults)
}

func (h *Handler) handleCast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateVoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	vote, err := h.service.Cast(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "vote rejected",
			"request_id", middleware.GetRequestID(ctx),
			"nomination_id", req.NominationID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, vote)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	votes, err := h.service.List(r.Context(), r.URL.Query().Get("nomination_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, votes)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	nominationID := chi.URLParam(r, "nominationID")
	count, err := h.service.Count(r.Context(), nominationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"nomination_id": nominationID,
		"vote_count":    count,
	})
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, results)
}
