package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-backend/internal/models"
)

type MovieRepo struct {
	pool *pgxpool.Pool
}

func NewMovieRepo(pool *pgxpool.Pool) *MovieRepo {
	return &MovieRepo{pool: pool}
}

func (r *MovieRepo) Create(ctx context.Context, m *models.MovieDetail) error {
	query := `INSERT INTO movie (description, release_year, rating_type, rating, duration, director, writer,
		cast_members, thumbnail_url, trailer_url, video_url, feature_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING content_id, views, created_at`

	return r.pool.QueryRow(ctx, query,
		m.Description, m.ReleaseYear, m.RatingType, m.Rating, m.Duration,
		textArray(m.Director), textArray(m.Writer), textArray(m.CastMembers),
		m.ThumbnailURL, m.TrailerURL, m.VideoURL, textArray(m.FeatureIn),
	).Scan(&m.ContentID, &m.Views, &m.CreatedAt)
}

func (r *MovieRepo) GetByContentID(ctx context.Context, contentID uuid.UUID) (*models.MovieDetail, error) {
	m := &models.MovieDetail{}
	query := `SELECT content_id, description, release_year, rating_type, rating, duration, director, writer,
		cast_members, thumbnail_url, trailer_url, video_url, feature_in, views, created_at
		FROM movie WHERE content_id = $1`

	err := r.pool.QueryRow(ctx, query, contentID).Scan(
		&m.ContentID, &m.Description, &m.ReleaseYear, &m.RatingType, &m.Rating, &m.Duration,
		&m.Director, &m.Writer, &m.CastMembers, &m.ThumbnailURL, &m.TrailerURL, &m.VideoURL,
		&m.FeatureIn, &m.Views, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MovieRepo) Update(ctx context.Context, m *models.MovieDetail) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE movie SET description = $1, release_year = $2, rating_type = $3, rating = $4, duration = $5,
		 director = $6, writer = $7, cast_members = $8, thumbnail_url = $9, trailer_url = $10,
		 video_url = $11, feature_in = $12, updated_at = NOW()
		 WHERE content_id = $13`,
		m.Description, m.ReleaseYear, m.RatingType, m.Rating, m.Duration,
		textArray(m.Director), textArray(m.Writer), textArray(m.CastMembers),
		m.ThumbnailURL, m.TrailerURL, m.VideoURL, textArray(m.FeatureIn), m.ContentID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IncrementViews bumps the view counter and returns the new value.
func (r *MovieRepo) IncrementViews(ctx context.Context, contentID uuid.UUID) (int, error) {
	var views int
	err := r.pool.QueryRow(ctx,
		"UPDATE movie SET views = views + 1 WHERE content_id = $1 RETURNING views", contentID,
	).Scan(&views)
	return views, err
}

func (r *MovieRepo) Delete(ctx context.Context, contentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM movie WHERE content_id = $1", contentID)
	return err
}
