package handlers

import (
	"context"
	"net/http"

	"catalog-backend/internal/models"
)

type dashboardSource interface {
	Stats(ctx context.Context) (*models.CatalogStats, error)
	Orphans(ctx context.Context) (*models.OrphanCounts, error)
}

type DashboardHandler struct {
	source dashboardSource
}

func NewDashboardHandler(source dashboardSource) *DashboardHandler {
	return &DashboardHandler{source: source}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.source.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Orphans reports detail rows no longer referenced by any parent.
func (h *DashboardHandler) Orphans(w http.ResponseWriter, r *http.Request) {
	counts, err := h.source.Orphans(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
