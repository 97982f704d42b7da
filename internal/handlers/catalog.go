package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"catalog-backend/internal/models"
)

type catalogReader interface {
	ListAll(ctx context.Context) ([]models.CatalogItem, error)
	ListByType(ctx context.Context, contentType models.ContentType) ([]models.CatalogItem, error)
	Grouped(ctx context.Context) (*models.GroupedCatalog, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
}

type railReader interface {
	ByFeature(ctx context.Context, label string) ([]models.RailItem, error)
	ByGenre(ctx context.Context, genre string) ([]models.RailItem, error)
}

type viewCounter interface {
	IncrementViews(ctx context.Context, pointerID uuid.UUID) (int, error)
}

// CatalogHandler serves the public, read-mostly catalog.
type CatalogHandler struct {
	catalog catalogReader
	rails   railReader
	views   viewCounter
}

func NewCatalogHandler(catalog catalogReader, rails railReader, views viewCounter) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, rails: rails, views: views}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		items, err := h.catalog.ListAll(r.Context())
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": nonNilItems(items)})
		return
	}

	contentType, ok := parseContentType(raw)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"type": "Unknown content type"}, r))
		return
	}

	items, err := h.catalog.ListByType(r.Context(), contentType)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": nonNilItems(items)})
}

func (h *CatalogHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.catalog.Grouped(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	item, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Features lists the labels an entry may be featured under, per content type.
func (h *CatalogHandler) Features(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		string(models.ContentTypeMovie):     models.BaseFeatureLabels,
		string(models.ContentTypeWebSeries): models.BaseFeatureLabels,
		string(models.ContentTypeShow):      models.ShowFeatureLabels,
	})
}

func (h *CatalogHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	views, err := h.views.IncrementViews(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"views": views})
}

func (h *CatalogHandler) FeatureRail(w http.ResponseWriter, r *http.Request) {
	items, err := h.rails.ByFeature(r.Context(), r.URL.Query().Get("label"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": nonNilRail(items)})
}

func (h *CatalogHandler) GenreRail(w http.ResponseWriter, r *http.Request) {
	items, err := h.rails.ByGenre(r.Context(), r.URL.Query().Get("genre"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": nonNilRail(items)})
}

// parseContentType accepts the stored labels and their URL-friendly slugs.
func parseContentType(raw string) (models.ContentType, bool) {
	if t := models.ContentType(raw); t.Valid() {
		return t, true
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movie", "movies":
		return models.ContentTypeMovie, true
	case "show", "shows", "tv-shows":
		return models.ContentTypeShow, true
	case "web-series", "webseries", "web series", "series":
		return models.ContentTypeWebSeries, true
	}
	return "", false
}

func nonNilItems(items []models.CatalogItem) []models.CatalogItem {
	if items == nil {
		return []models.CatalogItem{}
	}
	return items
}

func nonNilRail(items []models.RailItem) []models.RailItem {
	if items == nil {
		return []models.RailItem{}
	}
	return items
}
