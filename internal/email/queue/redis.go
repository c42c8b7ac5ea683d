// Package queue implements the durable email queue on Redis. Jobs wait on a
// pending list, move to a processing list while in flight, are parked on a
// retry zset between attempts, and land on a failed list once exhausted so
// they can be inspected later.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Black1604/cloud1604-solution/internal/config"
	edomain "github.com/Black1604/cloud1604-solution/internal/email/domain"
	"github.com/Black1604/cloud1604-solution/internal/metrics"
)

const (
	keyPending    = "emailq:pending"
	keyProcessing = "emailq:processing"
	keyRetry      = "emailq:retry"
	keyFailed     = "emailq:failed"
)

// Ensure RedisQueue implements domain.Queue
var _ edomain.Queue = (*RedisQueue)(nil)

// RedisQueue accepts jobs for asynchronous delivery. Enqueue only guarantees
// durable acceptance; a Worker drains the queue in a separate process.
type RedisQueue struct {
	rc          *redis.Client
	maxAttempts int
	log         zerolog.Logger
}

func New(rc *redis.Client, cfg config.Config, log zerolog.Logger) *RedisQueue {
	maxAttempts := cfg.QueueMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &RedisQueue{rc: rc, maxAttempts: maxAttempts, log: log}
}

func (q *RedisQueue) Enqueue(ctx context.Context, tenantID uuid.UUID, msg edomain.Message) (string, error) {
	job := edomain.Job{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Message:     msg,
		MaxAttempts: q.maxAttempts,
		CreatedAt:   time.Now().UTC(),
	}
	b, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal email job: %w", err)
	}
	if err := q.rc.LPush(ctx, keyPending, b).Err(); err != nil {
		return "", fmt.Errorf("enqueue email job: %w", err)
	}
	if n, err := q.rc.LLen(ctx, keyPending).Result(); err == nil {
		metrics.SetQueueDepth(float64(n))
	}
	q.log.Info().
		Str("job_id", job.ID).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email job enqueued")
	return job.ID, nil
}

// Depth returns the number of jobs waiting on the pending list.
func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	return q.rc.LLen(ctx, keyPending).Result()
}

// Failed returns up to limit permanently failed jobs, newest first.
func (q *RedisQueue) Failed(ctx context.Context, limit int64) ([]edomain.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	raws, err := q.rc.LRange(ctx, keyFailed, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	jobs := make([]edomain.Job, 0, len(raws))
	for _, raw := range raws {
		var job edomain.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			// keep going; a corrupt entry should not hide the rest
			q.log.Warn().Err(err).Msg("skipping unreadable failed job")
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Requeue moves a failed job back onto the pending list with a fresh attempt
// budget. It returns edomain-level not-found semantics via the bool.
func (q *RedisQueue) Requeue(ctx context.Context, jobID string) (bool, error) {
	raws, err := q.rc.LRange(ctx, keyFailed, 0, -1).Result()
	if err != nil {
		return false, err
	}
	for _, raw := range raws {
		var job edomain.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			continue
		}
		if job.ID != jobID {
			continue
		}
		job.Attempts = 0
		job.LastError = ""
		b, err := json.Marshal(job)
		if err != nil {
			return false, err
		}
		pipe := q.rc.TxPipeline()
		pipe.LRem(ctx, keyFailed, 1, raw)
		pipe.LPush(ctx, keyPending, b)
		if _, err := pipe.Exec(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// PurgeFailed drops all retained failed jobs and returns how many were removed.
func (q *RedisQueue) PurgeFailed(ctx context.Context) (int64, error) {
	n, err := q.rc.LLen(ctx, keyFailed).Result()
	if err != nil {
		return 0, err
	}
	if err := q.rc.Del(ctx, keyFailed).Err(); err != nil {
		return 0, err
	}
	return n, nil
}
