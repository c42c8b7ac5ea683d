package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Black1604/cloud1604-solution/internal/config"
	edomain "github.com/Black1604/cloud1604-solution/internal/email/domain"
	"github.com/Black1604/cloud1604-solution/internal/metrics"
)

// Ensure Dispatcher implements domain.Dispatcher
var _ edomain.Dispatcher = (*Dispatcher)(nil)

// Dispatcher delivers messages through a Sender with bounded retries and
// exponential backoff. Exactly one transport call is made per attempt.
type Dispatcher struct {
	sender      edomain.Sender
	maxAttempts int
	baseDelay   time.Duration
	log         zerolog.Logger
}

func NewDispatcher(sender edomain.Sender, cfg config.Config, log zerolog.Logger) *Dispatcher {
	maxAttempts := cfg.SMTPMaxRetries
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	baseDelay := cfg.SMTPRetryDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Dispatcher{sender: sender, maxAttempts: maxAttempts, baseDelay: baseDelay, log: log}
}

// Dispatch returns true as soon as any attempt succeeds and false only after
// all attempts are exhausted. Delivery failure is never surfaced as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID uuid.UUID, msg edomain.Message) bool {
	start := time.Now()

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		d.log.Info().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Int("attempt", attempt).
			Msg("attempting to send email")

		err := d.sender.Send(ctx, tenantID, msg)
		if err == nil {
			metrics.IncEmailAttempt("success")
			metrics.IncEmailSent()
			metrics.ObserveEmailDelivery(time.Since(start).Seconds())
			d.log.Info().
				Str("to", msg.To).
				Int("attempt", attempt).
				Msg("email sent successfully")
			return true
		}

		metrics.IncEmailAttempt("failure")
		d.log.Error().
			Err(err).
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Int("attempt", attempt).
			Msg("email sending failed")

		if attempt == d.maxAttempts {
			break
		}

		// exponential backoff: base, 2*base, 4*base, ...
		delay := d.baseDelay << (attempt - 1)
		select {
		case <-ctx.Done():
			d.log.Warn().Str("to", msg.To).Msg("context cancelled while backing off")
			metrics.IncEmailFailed()
			metrics.ObserveEmailDelivery(time.Since(start).Seconds())
			return false
		case <-time.After(delay):
		}
	}

	d.log.Error().Str("to", msg.To).Msg("max retries reached, giving up")
	metrics.IncEmailFailed()
	metrics.ObserveEmailDelivery(time.Since(start).Seconds())
	return false
}
