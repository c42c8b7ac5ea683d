package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Black1604/cloud1604-solution/internal/config"
	edomain "github.com/Black1604/cloud1604-solution/internal/email/domain"
	"github.com/Black1604/cloud1604-solution/internal/metrics"
	"github.com/Black1604/cloud1604-solution/internal/platform/ratelimit"
)

// Worker drains the email queue and hands jobs to the Dispatcher. Run one
// worker per queue: startup recovery reclaims the whole processing list.
type Worker struct {
	rc          *redis.Client
	dispatcher  edomain.Dispatcher
	limiter     ratelimit.Store
	window      ratelimit.Window
	backoffBase time.Duration
	idlePoll    time.Duration
	log         zerolog.Logger
}

func NewWorker(rc *redis.Client, dispatcher edomain.Dispatcher, limiter ratelimit.Store, cfg config.Config, log zerolog.Logger) *Worker {
	backoff := cfg.QueueBackoffBase
	if backoff <= 0 {
		backoff = time.Second
	}
	idle := cfg.WorkerIdlePoll
	if idle <= 0 {
		idle = time.Second
	}
	return &Worker{
		rc:         rc,
		dispatcher: dispatcher,
		limiter:    limiter,
		window: ratelimit.Window{
			Name:     "emailq",
			Limit:    cfg.QueueRateLimit,
			Duration: cfg.QueueRateWindow,
		},
		backoffBase: backoff,
		idlePoll:    idle,
		log:         log,
	}
}

// Run processes jobs until ctx is cancelled. Jobs left on the processing list
// by an earlier crash are requeued before the loop starts.
func (w *Worker) Run(ctx context.Context) error {
	w.recoverStranded(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.runOnce(ctx)
	}
}

// runOnce performs one scheduling step: promote due retries, pop at most one
// job and process it. Idle and throttled steps sleep before returning.
func (w *Worker) runOnce(ctx context.Context) {
	w.promoteDue(ctx)
	w.reportDepth(ctx)

	raw, err := w.rc.LMove(ctx, keyPending, keyProcessing, "RIGHT", "LEFT").Result()
	if errors.Is(err, redis.Nil) {
		w.sleep(ctx, w.idlePoll)
		return
	}
	if err != nil {
		w.log.Error().Err(err).Msg("dequeue failed")
		w.sleep(ctx, w.idlePoll)
		return
	}

	// consult the window only with a job in hand, so idle polls never burn a
	// slot; a throttled job goes straight back to the head of the queue
	allowed, retryAfter, err := w.limiter.Allow(ctx, w.window)
	if err != nil {
		// fail-open on limiter store errors
		w.log.Warn().Err(err).Msg("rate limiter unavailable")
	} else if !allowed {
		metrics.IncQueueThrottled()
		if err := w.rc.LMove(ctx, keyProcessing, keyPending, "LEFT", "RIGHT").Err(); err != nil {
			w.log.Error().Err(err).Msg("failed to return throttled job")
		}
		if retryAfter <= 0 || retryAfter > w.window.Duration {
			retryAfter = w.idlePoll
		}
		w.sleep(ctx, retryAfter)
		return
	}

	w.process(ctx, raw)
}

func (w *Worker) process(ctx context.Context, raw string) {
	var job edomain.Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		w.log.Error().Err(err).Msg("unreadable job payload, parking on failed list")
		pipe := w.rc.TxPipeline()
		pipe.LRem(ctx, keyProcessing, 1, raw)
		pipe.LPush(ctx, keyFailed, raw)
		_, _ = pipe.Exec(ctx)
		metrics.IncQueueJob("failed")
		return
	}

	job.Attempts++
	w.log.Info().
		Str("job_id", job.ID).
		Str("to", job.Message.To).
		Str("subject", job.Message.Subject).
		Int("attempt", job.Attempts).
		Msg("processing email job")

	delivered := w.dispatcher.Dispatch(ctx, job.TenantID, job.Message)

	switch out, delay := nextOutcome(job, delivered, w.backoffBase); out {
	case outcomeCompleted:
		if err := w.rc.LRem(ctx, keyProcessing, 1, raw).Err(); err != nil {
			w.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to ack completed job")
		}
		metrics.IncQueueJob("completed")
		w.log.Info().Str("job_id", job.ID).Str("to", job.Message.To).Msg("email job completed")

	case outcomeRetried:
		job.LastError = fmt.Sprintf("delivery failed on attempt %d", job.Attempts)
		b, _ := json.Marshal(job)
		pipe := w.rc.TxPipeline()
		pipe.ZAdd(ctx, keyRetry, redis.Z{
			Score:  float64(time.Now().Add(delay).UnixMilli()),
			Member: string(b),
		})
		pipe.LRem(ctx, keyProcessing, 1, raw)
		if _, err := pipe.Exec(ctx); err != nil {
			w.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to schedule retry")
		}
		metrics.IncQueueJob("retried")
		w.log.Warn().
			Str("job_id", job.ID).
			Int("attempt", job.Attempts).
			Dur("retry_in", delay).
			Msg("email job failed, retry scheduled")

	case outcomeFailed:
		job.LastError = fmt.Sprintf("delivery failed after %d attempts", job.Attempts)
		b, _ := json.Marshal(job)
		pipe := w.rc.TxPipeline()
		pipe.LPush(ctx, keyFailed, string(b))
		pipe.LRem(ctx, keyProcessing, 1, raw)
		if _, err := pipe.Exec(ctx); err != nil {
			w.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to park failed job")
		}
		metrics.IncQueueJob("failed")
		metrics.IncEmailFailed()
		w.log.Error().
			Str("job_id", job.ID).
			Str("to", job.Message.To).
			Int("attempts", job.Attempts).
			Msg("email job permanently failed, retained for inspection")
	}
}

type outcome int

const (
	outcomeCompleted outcome = iota
	outcomeRetried
	outcomeFailed
)

// nextOutcome decides what happens to a job whose delivery attempt just
// finished. The returned delay applies only to retries and doubles with each
// consumed attempt.
func nextOutcome(job edomain.Job, delivered bool, base time.Duration) (outcome, time.Duration) {
	if delivered {
		return outcomeCompleted, 0
	}
	if job.Attempts >= job.MaxAttempts {
		return outcomeFailed, 0
	}
	return outcomeRetried, base << (job.Attempts - 1)
}

// promoteDue moves retry jobs whose backoff elapsed back onto the pending list.
func (w *Worker) promoteDue(ctx context.Context) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	due, err := w.rc.ZRangeByScore(ctx, keyRetry, &redis.ZRangeBy{Min: "-inf", Max: now}).Result()
	if err != nil {
		w.log.Error().Err(err).Msg("retry scan failed")
		return
	}
	for _, member := range due {
		removed, err := w.rc.ZRem(ctx, keyRetry, member).Result()
		if err != nil || removed == 0 {
			continue
		}
		if err := w.rc.LPush(ctx, keyPending, member).Err(); err != nil {
			w.log.Error().Err(err).Msg("failed to promote retry job")
		}
	}
}

// recoverStranded requeues jobs a previous run left on the processing list.
func (w *Worker) recoverStranded(ctx context.Context) {
	recovered := 0
	for {
		_, err := w.rc.LMove(ctx, keyProcessing, keyPending, "RIGHT", "LEFT").Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			w.log.Error().Err(err).Msg("recovery scan failed")
			break
		}
		recovered++
	}
	if recovered > 0 {
		w.log.Info().Int("jobs", recovered).Msg("recovered stranded jobs")
	}
}

func (w *Worker) reportDepth(ctx context.Context) {
	if n, err := w.rc.LLen(ctx, keyPending).Result(); err == nil {
		metrics.SetQueueDepth(float64(n))
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
