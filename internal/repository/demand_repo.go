package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-backend/internal/models"
)

type DemandRepo struct {
	pool *pgxpool.Pool
}

func NewDemandRepo(pool *pgxpool.Pool) *DemandRepo {
	return &DemandRepo{pool: pool}
}

func (r *DemandRepo) Create(ctx context.Context, d *models.DemandRequest) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	query := `INSERT INTO demand (title, content_type, description, user_ip, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	return r.pool.QueryRow(ctx, query,
		d.Title, d.ContentType, d.Description, d.UserIP, d.CreatedAt,
	).Scan(&d.ID)
}

// CountSince counts requests from ip created at or after since.
func (r *DemandRepo) CountSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM demand WHERE user_ip = $1 AND created_at >= $2", ip, since,
	).Scan(&count)
	return count, err
}

func (r *DemandRepo) List(ctx context.Context) ([]*models.DemandRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, content_type, description, user_ip, created_at
		 FROM demand ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var demands []*models.DemandRequest
	for rows.Next() {
		d := &models.DemandRequest{}
		if err := rows.Scan(&d.ID, &d.Title, &d.ContentType, &d.Description, &d.UserIP, &d.CreatedAt); err != nil {
			return nil, err
		}
		demands = append(demands, d)
	}
	return demands, rows.Err()
}

func (r *DemandRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM demand WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
