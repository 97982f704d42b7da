package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"catalog-backend/internal/models"
)

const releaseDateLayout = "2006-01-02"

type UpcomingService struct {
	store UpcomingStore
}

func NewUpcomingService(store UpcomingStore) *UpcomingService {
	return &UpcomingService{store: store}
}

func (s *UpcomingService) List(ctx context.Context) ([]*models.UpcomingAnnouncement, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.UpcomingAnnouncement{}
	}
	return items, nil
}

func (s *UpcomingService) Create(ctx context.Context, in models.UpcomingInput) (*models.UpcomingAnnouncement, error) {
	u, err := upcomingFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UpcomingService) Update(ctx context.Context, id uuid.UUID, in models.UpcomingInput) (*models.UpcomingAnnouncement, error) {
	u, err := upcomingFromInput(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Announcement not found"}
		}
		return nil, err
	}

	u.ID = existing.ID
	u.CreatedAt = existing.CreatedAt
	if err := s.store.Update(ctx, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Announcement not found"}
		}
		return nil, err
	}
	return u, nil
}

func (s *UpcomingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "Announcement not found"}
		}
		return err
	}
	return nil
}

func upcomingFromInput(in models.UpcomingInput) (*models.UpcomingAnnouncement, error) {
	fieldErrors := make(map[string]string)

	if in.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if !in.ContentType.Valid() {
		fieldErrors["content_type"] = "Unknown content type"
	}
	releaseDate, err := time.Parse(releaseDateLayout, in.ReleaseDate)
	if err != nil {
		fieldErrors["release_date"] = "Release date must be YYYY-MM-DD"
	}
	if in.ContentOrder < 1 {
		fieldErrors["content_order"] = "Content order must be at least 1"
	}
	if !models.ValidRatingType(in.RatingType) {
		fieldErrors["rating_type"] = "Unknown rating type"
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	return &models.UpcomingAnnouncement{
		Title:        in.Title,
		ContentType:  in.ContentType,
		ReleaseDate:  releaseDate,
		ContentOrder: in.ContentOrder,
		Genre:        nonNilStrings(in.Genres),
		RatingType:   in.RatingType,
		Directors:    nonNilStrings(in.Directors),
		Writers:      nonNilStrings(in.Writers),
		CastMembers:  nonNilStrings(in.Cast),
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		TrailerURL:   in.TrailerURL,
	}, nil
}
