package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// emailTotal counts terminal email delivery outcomes.
	// Labels:
	// - status: "success" or "failed"
	emailTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solution",
			Subsystem: "email",
			Name:      "total",
			Help:      "Terminal email delivery outcomes.",
		},
		[]string{"status"},
	)

	// emailAttempts counts individual transport attempts, including retries.
	// Labels:
	// - result: "success" or "failure"
	emailAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solution",
			Subsystem: "email",
			Name:      "attempts_total",
			Help:      "Individual mail transport attempts, including retries.",
		},
		[]string{"result"},
	)

	// emailDuration tracks end-to-end delivery time including backoff.
	emailDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "solution",
			Subsystem: "email",
			Name:      "delivery_seconds",
			Help:      "Time taken to deliver an email, retries included.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10},
		},
	)

	// queueDepth tracks the number of jobs waiting on the email queue.
	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "solution",
			Subsystem: "email",
			Name:      "queue_depth",
			Help:      "Current number of jobs waiting on the email queue.",
		},
	)

	// queueJobs counts queue job outcomes at the queue level.
	// Labels:
	// - outcome: "completed", "retried" or "failed"
	queueJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solution",
			Subsystem: "email",
			Name:      "queue_jobs_total",
			Help:      "Email queue job outcomes.",
		},
		[]string{"outcome"},
	)

	// queueThrottled counts worker pauses caused by the rate-limit window.
	queueThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "solution",
			Subsystem: "email",
			Name:      "queue_throttled_total",
			Help:      "Number of times the worker paused on the rate-limit window.",
		},
	)
)

// IncEmailSent increments the terminal success counter.
func IncEmailSent() { emailTotal.WithLabelValues("success").Inc() }

// IncEmailFailed increments the terminal failure counter.
func IncEmailFailed() { emailTotal.WithLabelValues("failed").Inc() }

// IncEmailAttempt records a single transport attempt result.
func IncEmailAttempt(result string) {
	if result == "" {
		result = "unknown"
	}
	emailAttempts.WithLabelValues(result).Inc()
}

// ObserveEmailDelivery records the total delivery duration in seconds.
func ObserveEmailDelivery(seconds float64) { emailDuration.Observe(seconds) }

// SetQueueDepth sets the pending email queue gauge.
func SetQueueDepth(n float64) { queueDepth.Set(n) }

// IncQueueJob records a queue-level job outcome.
func IncQueueJob(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	queueJobs.WithLabelValues(outcome).Inc()
}

// IncQueueThrottled counts a rate-limit pause of the queue worker.
func IncQueueThrottled() { queueThrottled.Inc() }
