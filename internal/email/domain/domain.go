package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Attachment references a file to attach to an outgoing message.
type Attachment struct {
	Filename    string `json:"filename"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

// Message is a fully rendered email ready for delivery.
type Message struct {
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Sender is a pluggable email sending interface supporting per-tenant overrides.
// Implementations should use the settings service and config defaults internally.
// tenantID is required to allow per-tenant routing/config; use uuid.Nil for global.
type Sender interface {
	Send(ctx context.Context, tenantID uuid.UUID, msg Message) error
}

// Dispatcher delivers a message with bounded retries. It returns true as soon
// as any attempt succeeds and false only after all attempts are exhausted;
// delivery failure is a reportable outcome, not an error.
type Dispatcher interface {
	Dispatch(ctx context.Context, tenantID uuid.UUID, msg Message) bool
}

// Job is the durable envelope a queued message travels in. It is owned by the
// queue from enqueue until terminal; only the worker mutates Attempts.
type Job struct {
	ID          string    `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Message     Message   `json:"message"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"max_attempts"`
	CreatedAt   time.Time `json:"created_at"`
	LastError   string    `json:"last_error,omitempty"`
}

// Queue accepts messages for asynchronous delivery. Enqueue guarantees durable
// acceptance of the job, not delivery.
type Queue interface {
	Enqueue(ctx context.Context, tenantID uuid.UUID, msg Message) (string, error)
}
