package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-backend/internal/models"
)

// AuditRepo reports rows no parent references. Nothing here deletes.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) CountOrphans(ctx context.Context) (*models.OrphanCounts, error) {
	counts := &models.OrphanCounts{}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM episode e
		WHERE NOT EXISTS (SELECT 1 FROM show s WHERE e.episode_id = ANY(s.episode_id_list))
		  AND NOT EXISTS (SELECT 1 FROM season se WHERE e.episode_id = ANY(se.episode_id_list))`,
	).Scan(&counts.Episodes)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM season se
		WHERE NOT EXISTS (SELECT 1 FROM web_series w WHERE se.season_id = ANY(w.season_id_list))`,
	).Scan(&counts.Seasons)
	if err != nil {
		return nil, err
	}

	return counts, nil
}
