package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	adomain "github.com/Black1604/cloud1604-solution/internal/auth/domain"
)

// Status is the sales order lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every order status.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Next returns the statuses reachable from s in a single step. Every known
// status has an entry; terminal states and unknown statuses return nil.
func (s Status) Next() []Status {
	switch s {
	case StatusPending:
		return []Status{StatusProcessing, StatusCancelled}
	case StatusProcessing:
		return []Status{StatusShipped, StatusCancelled}
	case StatusShipped:
		return []Status{StatusDelivered, StatusCancelled}
	case StatusDelivered, StatusCancelled:
		return nil
	}
	return nil
}

// CanTransitionTo reports whether next is directly reachable from s.
// Self-transitions are never allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range s.Next() {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s.Valid() && len(s.Next()) == 0
}

// LineItem is an ordered product with its reserved quantity.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice float64
}

// Order is the persisted sales order as the pipeline sees it.
type Order struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Items         []LineItem
	Total         float64
	DeliveryDate  *time.Time
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ErrNotFound indicates the sales order does not exist.
var ErrNotFound = errors.New("sales order not found")

// ErrStaleStatus indicates a conditional status update matched no row because
// the status changed under us.
var ErrStaleStatus = errors.New("order status changed concurrently")

// ForbiddenError indicates the actor lacks a role allowed to transition orders.
type ForbiddenError struct {
	Roles []string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("actor roles %v may not update order status", e.Roles)
}

// InvalidTransitionError identifies an illegal status transition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Repository abstracts persistence for sales orders. All conditional methods
// return ErrStaleStatus when the row no longer carries the expected status,
// and leave no partial effects behind in that case.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Order, error)
	// UpdateStatus sets the status only if the row still carries expected.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status) (Order, error)
	// Cancel atomically sets the status to CANCELLED and restores each line
	// item's reserved stock.
	Cancel(ctx context.Context, id uuid.UUID, expected Status) (Order, error)
	// Ship atomically sets the status to SHIPPED and stamps the delivery date.
	Ship(ctx context.Context, id uuid.UUID, expected Status, deliveryDate time.Time) (Order, error)
}

// AllowedRoles may change order statuses.
var AllowedRoles = []string{"OWNER", "ADMIN", "SALES_OFFICER"}

// Service encapsulates status transitions for sales orders.
type Service interface {
	Transition(ctx context.Context, actor adomain.Actor, id uuid.UUID, next Status) (Order, error)
}
