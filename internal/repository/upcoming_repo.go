package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-backend/internal/models"
)

type UpcomingRepo struct {
	pool *pgxpool.Pool
}

func NewUpcomingRepo(pool *pgxpool.Pool) *UpcomingRepo {
	return &UpcomingRepo{pool: pool}
}

const upcomingColumns = `id, title, content_type, release_date, content_order, genre, rating_type,
	directors, writers, cast_members, description, thumbnail_url, trailer_url, created_at`

func scanUpcoming(row pgx.Row) (*models.UpcomingAnnouncement, error) {
	u := &models.UpcomingAnnouncement{}
	err := row.Scan(
		&u.ID, &u.Title, &u.ContentType, &u.ReleaseDate, &u.ContentOrder, &u.Genre, &u.RatingType,
		&u.Directors, &u.Writers, &u.CastMembers, &u.Description, &u.ThumbnailURL, &u.TrailerURL, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UpcomingRepo) Create(ctx context.Context, u *models.UpcomingAnnouncement) error {
	query := `INSERT INTO upcoming_content (title, content_type, release_date, content_order, genre, rating_type,
		directors, writers, cast_members, description, thumbnail_url, trailer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		u.Title, u.ContentType, u.ReleaseDate, u.ContentOrder, textArray(u.Genre), u.RatingType,
		textArray(u.Directors), textArray(u.Writers), textArray(u.CastMembers),
		u.Description, u.ThumbnailURL, u.TrailerURL,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *UpcomingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.UpcomingAnnouncement, error) {
	return scanUpcoming(r.pool.QueryRow(ctx, `SELECT `+upcomingColumns+` FROM upcoming_content WHERE id = $1`, id))
}

// List returns announcements newest first.
func (r *UpcomingRepo) List(ctx context.Context) ([]*models.UpcomingAnnouncement, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+upcomingColumns+` FROM upcoming_content ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.UpcomingAnnouncement
	for rows.Next() {
		u, err := scanUpcoming(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *UpcomingRepo) Update(ctx context.Context, u *models.UpcomingAnnouncement) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE upcoming_content SET title = $1, content_type = $2, release_date = $3, content_order = $4,
		 genre = $5, rating_type = $6, directors = $7, writers = $8, cast_members = $9, description = $10,
		 thumbnail_url = $11, trailer_url = $12, updated_at = NOW()
		 WHERE id = $13`,
		u.Title, u.ContentType, u.ReleaseDate, u.ContentOrder, textArray(u.Genre), u.RatingType,
		textArray(u.Directors), textArray(u.Writers), textArray(u.CastMembers),
		u.Description, u.ThumbnailURL, u.TrailerURL, u.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *UpcomingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM upcoming_content WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
