package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"catalog-backend/internal/models"
)

type contentMutator interface {
	CreateMovie(ctx context.Context, in models.ContentInput) (*models.ContentPointer, error)
	CreateShow(ctx context.Context, in models.ContentInput) (*models.ContentPointer, error)
	CreateWebSeries(ctx context.Context, in models.ContentInput) (*models.ContentPointer, error)
	Update(ctx context.Context, pointerID uuid.UUID, in models.ContentInput) (*models.ContentPointer, error)
	Delete(ctx context.Context, pointerID uuid.UUID) error
}

type adminLister interface {
	List(ctx context.Context, q models.AdminListQuery) (*models.AdminContentPage, error)
}

// ContentHandler is the admin side of the catalog.
type ContentHandler struct {
	mutations contentMutator
	lister    adminLister
}

func NewContentHandler(mutations contentMutator, lister adminLister) *ContentHandler {
	return &ContentHandler{mutations: mutations, lister: lister}
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.AdminListQuery{
		Search:    q.Get("search"),
		SortViews: q.Get("sort_views"),
		Page:      1,
	}

	if raw := q.Get("type"); raw != "" && raw != "all" {
		contentType, ok := parseContentType(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"type": "Unknown content type"}, r))
			return
		}
		query.Type = contentType
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"page": "Must be a number"}, r))
			return
		}
		query.Page = page
	}

	page, err := h.lister.List(r.Context(), query)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ContentHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.mutations.CreateMovie)
}

func (h *ContentHandler) CreateShow(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.mutations.CreateShow)
}

func (h *ContentHandler) CreateWebSeries(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.mutations.CreateWebSeries)
}

func (h *ContentHandler) create(w http.ResponseWriter, r *http.Request,
	fn func(context.Context, models.ContentInput) (*models.ContentPointer, error)) {
	var in models.ContentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	pointer, err := fn(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pointer)
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var in models.ContentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	pointer, err := h.mutations.Update(r.Context(), id, in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pointer)
}

func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.mutations.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
