package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"catalog-backend/internal/models"
)

const CleanupQueueName = "queue:catalog-cleanup"

// JobRepo pushes cleanup jobs onto the Redis list drained by the worker pool.
type JobRepo struct {
	redis *redis.Client
}

func NewJobRepo(redisClient *redis.Client) *JobRepo {
	return &JobRepo{redis: redisClient}
}

func (r *JobRepo) Enqueue(ctx context.Context, job *models.CleanupJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.redis.LPush(ctx, CleanupQueueName, string(jobBytes)).Err()
}
