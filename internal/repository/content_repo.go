package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-backend/internal/models"
)

// ContentRepo stores catalog pointers (upload_content rows).
type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

const pointerColumns = `id, title, content_type, genre, content_id, created_at`

func scanPointer(row pgx.Row) (*models.ContentPointer, error) {
	p := &models.ContentPointer{}
	if err := row.Scan(&p.ID, &p.Title, &p.ContentType, &p.Genre, &p.ContentID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ContentRepo) Create(ctx context.Context, p *models.ContentPointer) error {
	query := `INSERT INTO upload_content (title, content_type, genre, content_id)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		p.Title, p.ContentType, textArray(p.Genre), p.ContentID,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *ContentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ContentPointer, error) {
	query := `SELECT ` + pointerColumns + ` FROM upload_content WHERE id = $1`
	return scanPointer(r.pool.QueryRow(ctx, query, id))
}

// List returns every pointer, newest first.
func (r *ContentRepo) List(ctx context.Context) ([]*models.ContentPointer, error) {
	query := `SELECT ` + pointerColumns + ` FROM upload_content ORDER BY created_at DESC`
	return r.query(ctx, query)
}

// ListByGenre returns pointers whose genre array contains genre exactly.
func (r *ContentRepo) ListByGenre(ctx context.Context, genre string) ([]*models.ContentPointer, error) {
	query := `SELECT ` + pointerColumns + ` FROM upload_content
		WHERE genre @> ARRAY[$1]::text[] ORDER BY created_at DESC`
	return r.query(ctx, query, genre)
}

func (r *ContentRepo) Update(ctx context.Context, p *models.ContentPointer) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE upload_content SET title = $1, content_type = $2, genre = $3, content_id = $4, updated_at = NOW()
		 WHERE id = $5`,
		p.Title, p.ContentType, textArray(p.Genre), p.ContentID, p.ID,
	)
	return err
}

func (r *ContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM upload_content WHERE id = $1", id)
	return err
}

func (r *ContentRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.ContentPointer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pointers []*models.ContentPointer
	for rows.Next() {
		p, err := scanPointer(rows)
		if err != nil {
			return nil, err
		}
		pointers = append(pointers, p)
	}
	return pointers, rows.Err()
}
