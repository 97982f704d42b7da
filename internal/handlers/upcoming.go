package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"catalog-backend/internal/models"
)

type upcomingManager interface {
	List(ctx context.Context) ([]*models.UpcomingAnnouncement, error)
	Create(ctx context.Context, in models.UpcomingInput) (*models.UpcomingAnnouncement, error)
	Update(ctx context.Context, id uuid.UUID, in models.UpcomingInput) (*models.UpcomingAnnouncement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UpcomingHandler struct {
	upcoming upcomingManager
}

func NewUpcomingHandler(upcoming upcomingManager) *UpcomingHandler {
	return &UpcomingHandler{upcoming: upcoming}
}

func (h *UpcomingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.upcoming.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *UpcomingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.UpcomingInput
	if !decodeJSON(w, r, &in) {
		return
	}

	item, err := h.upcoming.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *UpcomingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var in models.UpcomingInput
	if !decodeJSON(w, r, &in) {
		return
	}

	item, err := h.upcoming.Update(r.Context(), id, in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *UpcomingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.upcoming.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
