package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-backend/internal/models"
)

type WebSeriesRepo struct {
	pool *pgxpool.Pool
}

func NewWebSeriesRepo(pool *pgxpool.Pool) *WebSeriesRepo {
	return &WebSeriesRepo{pool: pool}
}

func (r *WebSeriesRepo) Create(ctx context.Context, w *models.WebSeriesDetail) error {
	return r.pool.QueryRow(ctx,
		"INSERT INTO web_series (season_id_list) VALUES ($1) RETURNING content_id, created_at",
		uuidArray(w.SeasonIDList),
	).Scan(&w.ContentID, &w.CreatedAt)
}

func (r *WebSeriesRepo) GetByContentID(ctx context.Context, contentID uuid.UUID) (*models.WebSeriesDetail, error) {
	w := &models.WebSeriesDetail{}
	err := r.pool.QueryRow(ctx,
		"SELECT content_id, season_id_list, created_at FROM web_series WHERE content_id = $1", contentID,
	).Scan(&w.ContentID, &w.SeasonIDList, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WebSeriesRepo) Delete(ctx context.Context, contentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM web_series WHERE content_id = $1", contentID)
	return err
}

type SeasonRepo struct {
	pool *pgxpool.Pool
}

func NewSeasonRepo(pool *pgxpool.Pool) *SeasonRepo {
	return &SeasonRepo{pool: pool}
}

func (r *SeasonRepo) Create(ctx context.Context, s *models.Season) error {
	query := `INSERT INTO season (season_title, season_description, release_year, rating_type, rating,
		director, writer, cast_members, thumbnail_url, trailer_url, feature_in, episode_id_list)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING season_id, created_at`

	return r.pool.QueryRow(ctx, query,
		s.SeasonTitle, s.SeasonDescription, s.ReleaseYear, s.RatingType, s.Rating,
		textArray(s.Director), textArray(s.Writer), textArray(s.CastMembers),
		s.ThumbnailURL, s.TrailerURL, textArray(s.FeatureIn), uuidArray(s.EpisodeIDList),
	).Scan(&s.SeasonID, &s.CreatedAt)
}

func (r *SeasonRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	s := &models.Season{}
	query := `SELECT season_id, season_title, season_description, release_year, rating_type, rating,
		director, writer, cast_members, thumbnail_url, trailer_url, feature_in, episode_id_list, created_at
		FROM season WHERE season_id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.SeasonID, &s.SeasonTitle, &s.SeasonDescription, &s.ReleaseYear, &s.RatingType, &s.Rating,
		&s.Director, &s.Writer, &s.CastMembers, &s.ThumbnailURL, &s.TrailerURL, &s.FeatureIn,
		&s.EpisodeIDList, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SeasonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM season WHERE season_id = $1", id)
	return err
}

type EpisodeRepo struct {
	pool *pgxpool.Pool
}

func NewEpisodeRepo(pool *pgxpool.Pool) *EpisodeRepo {
	return &EpisodeRepo{pool: pool}
}

func (r *EpisodeRepo) Create(ctx context.Context, e *models.Episode) error {
	query := `INSERT INTO episode (title, duration, description, video_url, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5) RETURNING episode_id, created_at`

	return r.pool.QueryRow(ctx, query,
		e.Title, e.Duration, e.Description, e.VideoURL, e.ThumbnailURL,
	).Scan(&e.EpisodeID, &e.CreatedAt)
}

func (r *EpisodeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Episode, error) {
	e := &models.Episode{}
	err := r.pool.QueryRow(ctx,
		`SELECT episode_id, title, duration, description, video_url, thumbnail_url, created_at
		 FROM episode WHERE episode_id = $1`, id,
	).Scan(&e.EpisodeID, &e.Title, &e.Duration, &e.Description, &e.VideoURL, &e.ThumbnailURL, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EpisodeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM episode WHERE episode_id = $1", id)
	return err
}
