package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"catalog-backend/internal/metrics"
	"catalog-backend/internal/models"
)

const (
	railKindFeature = "feature"
	railKindGenre   = "genre"
)

// RailService builds the homepage rails. Results may come from cache; the
// cache is optional and any cache failure falls through to the stores.
type RailService struct {
	stores CatalogStores
	cache  RailCache
	log    *logrus.Entry
}

func NewRailService(stores CatalogStores, cache RailCache, log *logrus.Entry) *RailService {
	return &RailService{stores: stores, cache: cache, log: log.WithField("component", "rails")}
}

// ByFeature returns movies and shows whose feature_in holds label, in pointer
// order. Web series are never matched: the series row carries no labels.
func (s *RailService) ByFeature(ctx context.Context, label string) ([]models.RailItem, error) {
	if label == "" {
		return []models.RailItem{}, nil
	}
	return s.cached(ctx, railKindFeature, label, func() ([]models.RailItem, error) {
		pointers, err := s.stores.Pointers.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list pointers: %w", err)
		}

		items := []models.RailItem{}
		for _, p := range pointers {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			switch p.ContentType {
			case models.ContentTypeMovie:
				movie, err := s.stores.Movies.GetByContentID(ctx, p.ContentID)
				observeFetch(models.TableMovie, err)
				if err != nil {
					s.skip(p, err)
					continue
				}
				if containsString(movie.FeatureIn, label) {
					items = append(items, models.RailItem{ContentPointer: *p, Movie: movie})
				}
			case models.ContentTypeShow:
				show, err := s.stores.Shows.GetByID(ctx, p.ContentID)
				observeFetch(models.TableShow, err)
				if err != nil {
					s.skip(p, err)
					continue
				}
				if containsString(show.FeatureIn, label) {
					items = append(items, models.RailItem{ContentPointer: *p, Show: show})
				}
			}
		}
		return items, nil
	})
}

// ByGenre returns pointers tagged with genre (exact element match) resolved
// one level deep.
func (s *RailService) ByGenre(ctx context.Context, genre string) ([]models.RailItem, error) {
	if genre == "" {
		return []models.RailItem{}, nil
	}
	return s.cached(ctx, railKindGenre, genre, func() ([]models.RailItem, error) {
		pointers, err := s.stores.Pointers.ListByGenre(ctx, genre)
		if err != nil {
			return nil, fmt.Errorf("list pointers by genre: %w", err)
		}

		items := make([]models.RailItem, 0, len(pointers))
		for _, p := range pointers {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			item := models.RailItem{ContentPointer: *p}
			var fetchErr error
			switch p.ContentType {
			case models.ContentTypeMovie:
				item.Movie, fetchErr = s.stores.Movies.GetByContentID(ctx, p.ContentID)
				observeFetch(models.TableMovie, fetchErr)
			case models.ContentTypeShow:
				item.Show, fetchErr = s.stores.Shows.GetByID(ctx, p.ContentID)
				observeFetch(models.TableShow, fetchErr)
			case models.ContentTypeWebSeries:
				item.WebSeries, fetchErr = s.stores.WebSeries.GetByContentID(ctx, p.ContentID)
				observeFetch(models.TableWebSeries, fetchErr)
			default:
				fetchErr = fmt.Errorf("%w: %q", errUnknownType, p.ContentType)
			}
			if fetchErr != nil {
				s.skip(p, fetchErr)
				continue
			}
			items = append(items, item)
		}
		return items, nil
	})
}

// Invalidate drops every cached rail.
func (s *RailService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WithError(err).Warn("rail cache invalidation failed")
	}
}

func (s *RailService) cached(ctx context.Context, kind, arg string, build func() ([]models.RailItem, error)) ([]models.RailItem, error) {
	var (
		version  int64
		writable bool
	)
	if s.cache != nil {
		var items []models.RailItem
		v, hit, err := s.cache.Get(ctx, kind, arg, &items)
		switch {
		case err != nil:
			metrics.RailCache.WithLabelValues("error").Inc()
			s.log.WithError(err).WithField("rail", kind).Warn("rail cache read failed")
		case hit:
			metrics.RailCache.WithLabelValues("hit").Inc()
			if items == nil {
				items = []models.RailItem{}
			}
			return items, nil
		default:
			metrics.RailCache.WithLabelValues("miss").Inc()
			version, writable = v, true
		}
	}

	items, err := build()
	if err != nil {
		return nil, err
	}

	// Stored under the version read before building.
	if writable {
		if err := s.cache.Set(ctx, version, kind, arg, items); err != nil {
			s.log.WithError(err).WithField("rail", kind).Warn("rail cache write failed")
		}
	}
	return items, nil
}

func (s *RailService) skip(p *models.ContentPointer, err error) {
	metrics.AggregationSkips.WithLabelValues("rail").Inc()
	s.log.WithError(err).WithField("pointer_id", p.ID).Debug("rail entry skipped")
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
