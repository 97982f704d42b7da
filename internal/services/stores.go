package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"catalog-backend/internal/models"
)

// Store contracts satisfied by the pgx repositories. A missing row is
// reported as pgx.ErrNoRows.

type PointerStore interface {
	List(ctx context.Context) ([]*models.ContentPointer, error)
	ListByGenre(ctx context.Context, genre string) ([]*models.ContentPointer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContentPointer, error)
	Create(ctx context.Context, p *models.ContentPointer) error
	Update(ctx context.Context, p *models.ContentPointer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MovieStore interface {
	GetByContentID(ctx context.Context, contentID uuid.UUID) (*models.MovieDetail, error)
	Create(ctx context.Context, m *models.MovieDetail) error
	Update(ctx context.Context, m *models.MovieDetail) error
	IncrementViews(ctx context.Context, contentID uuid.UUID) (int, error)
	Delete(ctx context.Context, contentID uuid.UUID) error
}

type ShowStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ShowDetail, error)
	Create(ctx context.Context, s *models.ShowDetail) error
	Update(ctx context.Context, s *models.ShowDetail) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WebSeriesStore interface {
	GetByContentID(ctx context.Context, contentID uuid.UUID) (*models.WebSeriesDetail, error)
	Create(ctx context.Context, w *models.WebSeriesDetail) error
	Delete(ctx context.Context, contentID uuid.UUID) error
}

type SeasonStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Season, error)
	Create(ctx context.Context, s *models.Season) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type EpisodeStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Episode, error)
	Create(ctx context.Context, e *models.Episode) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UpcomingStore interface {
	List(ctx context.Context) ([]*models.UpcomingAnnouncement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.UpcomingAnnouncement, error)
	Create(ctx context.Context, u *models.UpcomingAnnouncement) error
	Update(ctx context.Context, u *models.UpcomingAnnouncement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DemandStore interface {
	Create(ctx context.Context, d *models.DemandRequest) error
	CountSince(ctx context.Context, ip string, since time.Time) (int, error)
	List(ctx context.Context) ([]*models.DemandRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrphanCounter interface {
	CountOrphans(ctx context.Context) (*models.OrphanCounts, error)
}

// CatalogStores bundles the six catalog tables.
type CatalogStores struct {
	Pointers  PointerStore
	Movies    MovieStore
	Shows     ShowStore
	WebSeries WebSeriesStore
	Seasons   SeasonStore
	Episodes  EpisodeStore
}

// RailCache is versioned: Get reports the version it read and Set stores
// under a version, so a rail computed before an invalidation is never
// served after it.
type RailCache interface {
	Get(ctx context.Context, kind, arg string, dst interface{}) (int64, bool, error)
	Set(ctx context.Context, version int64, kind, arg string, value interface{}) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ctx context.Context, channel string, msg models.WSMessage) error
}

type CleanupQueue interface {
	Enqueue(ctx context.Context, job *models.CleanupJob) error
}
