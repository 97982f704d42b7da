package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"catalog-backend/internal/models"
)

type demandIntake interface {
	Submit(ctx context.Context, in models.DemandInput, remoteAddr string) (*models.DemandRequest, error)
	List(ctx context.Context) ([]*models.DemandRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DemandHandler struct {
	demands demandIntake
}

func NewDemandHandler(demands demandIntake) *DemandHandler {
	return &DemandHandler{demands: demands}
}

// Submit records a viewer's request for a title. RemoteAddr has already been
// rewritten by RealIP when the server sits behind a proxy.
func (h *DemandHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.DemandInput
	if !decodeJSON(w, r, &in) {
		return
	}

	demand, err := h.demands.Submit(r.Context(), in, r.RemoteAddr)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, demand)
}

func (h *DemandHandler) List(w http.ResponseWriter, r *http.Request) {
	demands, err := h.demands.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": demands})
}

func (h *DemandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.demands.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
