package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-backend/internal/models"
)

type ShowRepo struct {
	pool *pgxpool.Pool
}

func NewShowRepo(pool *pgxpool.Pool) *ShowRepo {
	return &ShowRepo{pool: pool}
}

func (r *ShowRepo) Create(ctx context.Context, s *models.ShowDetail) error {
	query := `INSERT INTO show (title, description, content_type, release_year, rating_type, rating,
		thumbnail_url, trailer_url, genres, directors, writers, cast_members, feature_in, episode_id_list)
		VALUES ($1, $2, 'Show', $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		s.Title, s.Description, s.ReleaseYear, s.RatingType, s.Rating,
		s.ThumbnailURL, s.TrailerURL, textArray(s.Genres), textArray(s.Directors),
		textArray(s.Writers), textArray(s.CastMembers), textArray(s.FeatureIn),
		uuidArray(s.EpisodeIDList),
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *ShowRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ShowDetail, error) {
	s := &models.ShowDetail{}
	query := `SELECT id, title, description, release_year, rating_type, rating, thumbnail_url, trailer_url,
		genres, directors, writers, cast_members, feature_in, episode_id_list, created_at
		FROM show WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Title, &s.Description, &s.ReleaseYear, &s.RatingType, &s.Rating,
		&s.ThumbnailURL, &s.TrailerURL, &s.Genres, &s.Directors, &s.Writers,
		&s.CastMembers, &s.FeatureIn, &s.EpisodeIDList, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Update patches the show-level fields. The episode list is left alone.
func (r *ShowRepo) Update(ctx context.Context, s *models.ShowDetail) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE show SET title = $1, description = $2, release_year = $3, rating_type = $4, rating = $5,
		 thumbnail_url = $6, trailer_url = $7, genres = $8, directors = $9, writers = $10,
		 cast_members = $11, feature_in = $12, updated_at = NOW()
		 WHERE id = $13`,
		s.Title, s.Description, s.ReleaseYear, s.RatingType, s.Rating,
		s.ThumbnailURL, s.TrailerURL, textArray(s.Genres), textArray(s.Directors),
		textArray(s.Writers), textArray(s.CastMembers), textArray(s.FeatureIn), s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ShowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM show WHERE id = $1", id)
	return err
}
