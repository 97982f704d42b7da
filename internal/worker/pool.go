package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-backend/internal/metrics"
	"catalog-backend/internal/models"
	"catalog-backend/internal/repository"
	"catalog-backend/internal/services"
)

const maxAttempts = 3

// Pool drains the catalog cleanup queue. Each job is a list of rows left
// behind by a failed mutation; steps run in order and a retry resumes at the
// first step that has not succeeded.
type Pool struct {
	redis       *redis.Client
	apply       func(ctx context.Context, step models.CompensationStep) error
	workerCount int
	stopChan    chan struct{}
	log         *logrus.Entry
}

func NewPool(redisClient *redis.Client, stores services.CatalogStores, workerCount int, log *logrus.Entry) *Pool {
	return &Pool{
		redis: redisClient,
		apply: func(ctx context.Context, step models.CompensationStep) error {
			return services.DeleteRow(ctx, stores, step)
		},
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
		log:         log,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	p.log.WithField("workers", p.workerCount).Info("cleanup workers started")
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	log := p.log.WithField("worker", id)
	for {
		select {
		case <-p.stopChan:
			log.Info("worker shutting down")
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 5s timeout so Stop is noticed promptly
		result, err := p.redis.BLPop(ctx, 5*time.Second, repository.CleanupQueueName).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.CleanupJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.WithError(err).Error("failed to parse cleanup job")
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.WithFields(logrus.Fields{
			"job_id": job.ID,
			"reason": job.Reason,
			"steps":  len(job.Steps),
		}).Info("processing cleanup job")

		if err := p.process(ctx, &job); err != nil {
			p.handleFailure(&job, err)
		} else {
			log.WithField("job_id", job.ID).Info("cleanup job finished")
		}

		p.redis.Del(ctx, lockKey)
	}
}

// process runs the job's steps in order. On failure job.Steps is trimmed to
// the steps still outstanding.
func (p *Pool) process(ctx context.Context, job *models.CleanupJob) error {
	for i, step := range job.Steps {
		if err := p.apply(ctx, step); err != nil {
			job.Steps = job.Steps[i:]
			metrics.Compensations.WithLabelValues("failed").Inc()
			return fmt.Errorf("delete %s %s: %w", step.Table, step.ID, err)
		}
		metrics.Compensations.WithLabelValues("applied").Inc()
	}
	job.Steps = nil
	return nil
}

func (p *Pool) handleFailure(job *models.CleanupJob, err error) {
	job.RetryCount++
	log := p.log.WithFields(logrus.Fields{
		"job_id":  job.ID,
		"attempt": job.RetryCount,
		"pending": job.Steps,
	}).WithError(err)

	if job.RetryCount >= maxAttempts {
		log.Error("cleanup job failed permanently, rows left for the orphan audit")
		return
	}

	jobBytes, mErr := json.Marshal(job)
	if mErr != nil {
		log.WithField("marshal_error", mErr.Error()).Error("cleanup job could not be requeued, rows left for the orphan audit")
		return
	}

	log.Warn("cleanup job failed, retrying")
	time.AfterFunc(backoff(job.RetryCount), func() {
		p.redis.LPush(context.Background(), repository.CleanupQueueName, string(jobBytes))
	})
}

func backoff(retryCount int) time.Duration {
	return time.Duration(1<<uint(retryCount)) * time.Second
}
