package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	adomain "github.com/Black1604/cloud1604-solution/internal/auth/domain"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every invoice status.
func Statuses() []Status {
	return []Status{StatusDraft, StatusPending, StatusPaid, StatusOverdue, StatusCancelled}
}

// Valid reports whether s is a known invoice status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Next returns the statuses reachable from s in a single step. Every known
// status has an entry; terminal states and unknown statuses return nil.
func (s Status) Next() []Status {
	switch s {
	case StatusDraft:
		return []Status{StatusPending, StatusCancelled}
	case StatusPending:
		return []Status{StatusPaid, StatusOverdue, StatusCancelled}
	case StatusOverdue:
		return []Status{StatusPaid, StatusCancelled}
	case StatusPaid, StatusCancelled:
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

// Label returns the human-readable form used in email subjects ("Pending").
func (s Status) Label() string {
	str := string(s)
	if str == "" {
		return ""
	}
	return strings.ToUpper(str[:1]) + strings.ToLower(str[1:])
}

// Invoice is the persisted invoice record as the pipeline sees it.
type Invoice struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	InvoiceNumber string
	SalesOrderID  uuid.UUID
	CustomerName  string
	CustomerEmail string
	Total         float64
	DueDate       *time.Time
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ErrNotFound indicates the invoice does not exist.
var ErrNotFound = errors.New("invoice not found")

// ErrStaleStatus indicates a conditional status update matched no row because
// the status changed under us.
var ErrStaleStatus = errors.New("invoice status changed concurrently")

// ForbiddenError indicates the actor lacks a role allowed to transition invoices.
type ForbiddenError struct {
	Roles []string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("actor roles %v may not update invoice status", e.Roles)
}

// InvalidTransitionError identifies an illegal status transition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Repository abstracts persistence for invoices.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Invoice, error)
	// UpdateStatus sets the status only if the row still carries expected;
	// it returns ErrStaleStatus when a concurrent transition won.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status) (Invoice, error)
}

// AllowedRoles may change invoice statuses.
var AllowedRoles = []string{"OWNER", "ADMIN", "FINANCE"}

// Service encapsulates status transitions for invoices.
type Service interface {
	Transition(ctx context.Context, actor adomain.Actor, id uuid.UUID, next Status) (Invoice, error)
}
