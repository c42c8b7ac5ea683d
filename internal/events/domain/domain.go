package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event represents a business/audit event.
// Type examples: "invoice.status.changed", "order.status.changed",
// "email.enqueue.failed". Meta may contain from/to statuses, job id, etc.
type Event struct {
	Type     string
	TenantID uuid.UUID
	ActorID  uuid.UUID
	EntityID uuid.UUID
	Meta     map[string]string
	Time     time.Time
}

// Publisher publishes events to an external system (log, queue, etc.).
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
