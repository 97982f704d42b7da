package services

import (
	"context"
	"sort"
	"strings"

	"catalog-backend/internal/models"
)

const AdminPageSize = 20

// AdminCatalogService backs the admin dashboard: flattened listing, totals
// and the on-demand orphan report.
type AdminCatalogService struct {
	aggregator *Aggregator
	orphans    OrphanCounter
}

func NewAdminCatalogService(aggregator *Aggregator, orphans OrphanCounter) *AdminCatalogService {
	return &AdminCatalogService{aggregator: aggregator, orphans: orphans}
}

// Stats counts entries per type. Only movies track views, so TotalViews is
// the sum of movie views.
func (s *AdminCatalogService) Stats(ctx context.Context) (*models.CatalogStats, error) {
	items, err := s.aggregator.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.CatalogStats{}
	for _, item := range items {
		switch item.ContentType {
		case models.ContentTypeMovie:
			stats.TotalMovies++
			stats.TotalViews += item.Movie.Views
		case models.ContentTypeShow:
			stats.TotalShows++
		case models.ContentTypeWebSeries:
			stats.TotalWebSeries++
		}
	}
	return stats, nil
}

func (s *AdminCatalogService) List(ctx context.Context, q models.AdminListQuery) (*models.AdminContentPage, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"type": "Unknown content type"}}
	}
	if q.SortViews != "" && q.SortViews != "asc" && q.SortViews != "desc" {
		return nil, &ValidationError{Fields: map[string]string{"sort_views": "Must be asc or desc"}}
	}

	items, err := s.aggregator.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	rows := make([]models.AdminContentRow, 0, len(items))
	for _, item := range items {
		row := flattenItem(item)
		if q.Type != "" && row.Type != q.Type {
			continue
		}
		if search != "" && !matchesSearch(row, search) {
			continue
		}
		rows = append(rows, row)
	}

	switch q.SortViews {
	case "asc":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Views < rows[j].Views })
	case "desc":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Views > rows[j].Views })
	}

	return paginate(rows, q.Page), nil
}

func (s *AdminCatalogService) Orphans(ctx context.Context) (*models.OrphanCounts, error) {
	return s.orphans.CountOrphans(ctx)
}

func matchesSearch(row models.AdminContentRow, search string) bool {
	return strings.Contains(strings.ToLower(row.Title), search) ||
		strings.Contains(strings.ToLower(string(row.Type)), search) ||
		strings.Contains(strings.ToLower(row.RatingType), search)
}

func paginate(rows []models.AdminContentRow, page int) *models.AdminContentPage {
	total := len(rows)
	totalPages := (total + AdminPageSize - 1) / AdminPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * AdminPageSize
	end := start + AdminPageSize
	if end > total {
		end = total
	}

	return &models.AdminContentPage{
		Items:      rows[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
}

// flattenItem maps a resolved entry onto the dashboard row shape.
func flattenItem(item models.CatalogItem) models.AdminContentRow {
	row := models.AdminContentRow{
		ID:        item.ID.String(),
		ContentID: item.ContentID.String(),
		Title:     item.Title,
		Type:      item.ContentType,
		Genres:    nonNilStrings(item.Genre),
	}

	switch {
	case item.Movie != nil:
		m := item.Movie
		row.ReleaseYear = m.ReleaseYear
		row.RatingType = m.RatingType
		row.Rating = m.Rating
		row.Description = m.Description
		row.FeaturedIn = nonNilStrings(m.FeatureIn)
		row.ThumbnailURL = m.ThumbnailURL
		row.TrailerURL = m.TrailerURL
		row.VideoURL = m.VideoURL
		row.Directors = nonNilStrings(m.Director)
		row.Writers = nonNilStrings(m.Writer)
		row.Cast = nonNilStrings(m.CastMembers)
		row.Duration = m.Duration
		row.Views = m.Views

	case item.Show != nil:
		sh := item.Show
		row.ReleaseYear = sh.ReleaseYear
		row.RatingType = sh.RatingType
		row.Rating = sh.Rating
		row.Description = sh.Description
		row.FeaturedIn = nonNilStrings(sh.FeatureIn)
		row.ThumbnailURL = sh.ThumbnailURL
		row.TrailerURL = sh.TrailerURL
		row.Directors = nonNilStrings(sh.Directors)
		row.Writers = nonNilStrings(sh.Writers)
		row.Cast = nonNilStrings(sh.CastMembers)

	case item.WebSeries != nil:
		// Series-level fields live on the seasons; the first season stands
		// in for the series on the dashboard.
		row.Seasons = item.WebSeries.Seasons
		if len(item.WebSeries.Seasons) > 0 {
			first := item.WebSeries.Seasons[0]
			row.ReleaseYear = first.ReleaseYear
			row.RatingType = first.RatingType
			row.Rating = first.Rating
			row.Description = first.SeasonDescription
			row.FeaturedIn = nonNilStrings(first.FeatureIn)
			row.ThumbnailURL = first.ThumbnailURL
			row.TrailerURL = first.TrailerURL
			row.Directors = nonNilStrings(first.Director)
			row.Writers = nonNilStrings(first.Writer)
			row.Cast = nonNilStrings(first.CastMembers)
		}
	}

	if row.FeaturedIn == nil {
		row.FeaturedIn = []string{}
	}
	if row.Directors == nil {
		row.Directors = []string{}
	}
	if row.Writers == nil {
		row.Writers = []string{}
	}
	if row.Cast == nil {
		row.Cast = []string{}
	}
	return row
}
