package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"catalog-backend/internal/metrics"
	"catalog-backend/internal/models"
)

// Aggregator joins pointers with their detail chains. Only a failure to read
// the pointer set is fatal; anything that cannot be resolved below a pointer
// is dropped from the view.
type Aggregator struct {
	stores CatalogStores
	log    *logrus.Entry
}

func NewAggregator(stores CatalogStores, log *logrus.Entry) *Aggregator {
	return &Aggregator{stores: stores, log: log.WithField("component", "aggregator")}
}

func (a *Aggregator) ListAll(ctx context.Context) ([]models.CatalogItem, error) {
	pointers, err := a.stores.Pointers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pointers: %w", err)
	}
	return a.resolveAll(ctx, pointers)
}

func (a *Aggregator) ListByType(ctx context.Context, contentType models.ContentType) ([]models.CatalogItem, error) {
	if !contentType.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"type": "Unknown content type"}}
	}

	pointers, err := a.stores.Pointers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pointers: %w", err)
	}

	filtered := make([]*models.ContentPointer, 0, len(pointers))
	for _, p := range pointers {
		if p.ContentType == contentType {
			filtered = append(filtered, p)
		}
	}
	return a.resolveAll(ctx, filtered)
}

func (a *Aggregator) Grouped(ctx context.Context) (*models.GroupedCatalog, error) {
	items, err := a.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := &models.GroupedCatalog{
		Movies:    []models.CatalogItem{},
		Shows:     []models.CatalogItem{},
		WebSeries: []models.CatalogItem{},
	}
	for _, item := range items {
		switch item.ContentType {
		case models.ContentTypeMovie:
			grouped.Movies = append(grouped.Movies, item)
		case models.ContentTypeShow:
			grouped.Shows = append(grouped.Shows, item)
		case models.ContentTypeWebSeries:
			grouped.WebSeries = append(grouped.WebSeries, item)
		}
	}
	return grouped, nil
}

// Get resolves a single pointer. A missing pointer or detail row is a
// NotFoundError.
func (a *Aggregator) Get(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	p, err := a.stores.Pointers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Content not found"}
		}
		return nil, fmt.Errorf("get pointer: %w", err)
	}

	item, err := a.resolve(ctx, p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, errUnknownType) {
			return nil, &NotFoundError{Message: "Content not found"}
		}
		return nil, err
	}
	// Children stop resolving on cancel; do not hand back a truncated item.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return item, nil
}

func (a *Aggregator) resolveAll(ctx context.Context, pointers []*models.ContentPointer) ([]models.CatalogItem, error) {
	items := make([]models.CatalogItem, 0, len(pointers))
	for _, p := range pointers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item, err := a.resolve(ctx, p)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			a.skip("pointer", p.ID, err)
			continue
		}
		items = append(items, *item)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var errUnknownType = errors.New("unknown content type")

func (a *Aggregator) resolve(ctx context.Context, p *models.ContentPointer) (*models.CatalogItem, error) {
	item := &models.CatalogItem{ContentPointer: *p}

	switch p.ContentType {
	case models.ContentTypeMovie:
		movie, err := a.stores.Movies.GetByContentID(ctx, p.ContentID)
		observeFetch(models.TableMovie, err)
		if err != nil {
			return nil, err
		}
		item.Movie = movie

	case models.ContentTypeShow:
		show, err := a.stores.Shows.GetByID(ctx, p.ContentID)
		observeFetch(models.TableShow, err)
		if err != nil {
			return nil, err
		}
		item.Show = &models.ShowView{ShowDetail: *show, Episodes: a.episodes(ctx, show.EpisodeIDList)}

	case models.ContentTypeWebSeries:
		series, err := a.stores.WebSeries.GetByContentID(ctx, p.ContentID)
		observeFetch(models.TableWebSeries, err)
		if err != nil {
			return nil, err
		}
		item.WebSeries = &models.WebSeriesView{WebSeriesDetail: *series, Seasons: a.seasons(ctx, series.SeasonIDList)}

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownType, p.ContentType)
	}

	return item, nil
}

// seasons resolves ids in list order, skipping any season that cannot be read.
func (a *Aggregator) seasons(ctx context.Context, ids []uuid.UUID) []models.SeasonView {
	seasons := make([]models.SeasonView, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		season, err := a.stores.Seasons.GetByID(ctx, id)
		observeFetch(models.TableSeason, err)
		if err != nil {
			a.skip("season", id, err)
			continue
		}
		seasons = append(seasons, models.SeasonView{Season: *season, Episodes: a.episodes(ctx, season.EpisodeIDList)})
	}
	return seasons
}

func (a *Aggregator) episodes(ctx context.Context, ids []uuid.UUID) []models.Episode {
	episodes := make([]models.Episode, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		episode, err := a.stores.Episodes.GetByID(ctx, id)
		observeFetch(models.TableEpisode, err)
		if err != nil {
			a.skip("episode", id, err)
			continue
		}
		episodes = append(episodes, *episode)
	}
	return episodes
}

func (a *Aggregator) skip(kind string, id uuid.UUID, err error) {
	metrics.AggregationSkips.WithLabelValues(kind).Inc()
	entry := a.log.WithFields(logrus.Fields{"kind": kind, "id": id})
	if errors.Is(err, pgx.ErrNoRows) {
		entry.Debug("row missing, skipped")
		return
	}
	entry.WithError(err).Warn("row could not be resolved, skipped")
}

func observeFetch(table models.Table, err error) {
	result := "ok"
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		result = "missing"
	case err != nil:
		result = "error"
	}
	metrics.StoreFetches.WithLabelValues(string(table), result).Inc()
}
