package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	adomain "github.com/Black1604/cloud1604-solution/internal/auth/domain"
	"github.com/Black1604/cloud1604-solution/internal/config"
	evdomain "github.com/Black1604/cloud1604-solution/internal/events/domain"
	"github.com/Black1604/cloud1604-solution/internal/metrics"
	odomain "github.com/Black1604/cloud1604-solution/internal/orders/domain"
)

type service struct {
	repo odomain.Repository
	pub  evdomain.Publisher
	cfg  config.Config
	log  zerolog.Logger
	now  func() time.Time
}

func New(repo odomain.Repository, pub evdomain.Publisher, cfg config.Config, log zerolog.Logger) odomain.Service {
	return &service{repo: repo, pub: pub, cfg: cfg, log: log, now: time.Now}
}

// Transition validates and persists a status change. Cancelling restores each
// line item's reserved stock and shipping stamps a delivery date; both happen
// atomically with the status update so a retried request cannot apply the side
// effect twice.
func (s *service) Transition(ctx context.Context, actor adomain.Actor, id uuid.UUID, next odomain.Status) (odomain.Order, error) {
	if !actor.HasAnyRole(odomain.AllowedRoles...) {
		metrics.IncTransition("order", "forbidden")
		return odomain.Order{}, odomain.ForbiddenError{Roles: actor.Roles}
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, odomain.ErrNotFound) {
			return odomain.Order{}, err
		}
		metrics.IncTransition("order", "error")
		return odomain.Order{}, fmt.Errorf("load order: %w", err)
	}

	if !order.Status.CanTransitionTo(next) {
		metrics.IncTransition("order", "invalid")
		return odomain.Order{}, odomain.InvalidTransitionError{From: order.Status, To: next}
	}

	var updated odomain.Order
	switch next {
	case odomain.StatusCancelled:
		updated, err = s.repo.Cancel(ctx, id, order.Status)
	case odomain.StatusShipped:
		lead := s.cfg.ShipmentLeadTime
		if lead <= 0 {
			lead = 7 * 24 * time.Hour
		}
		updated, err = s.repo.Ship(ctx, id, order.Status, s.now().Add(lead))
	default:
		updated, err = s.repo.UpdateStatus(ctx, id, order.Status, next)
	}

	if errors.Is(err, odomain.ErrStaleStatus) {
		// a concurrent transition won; re-validate against what it left behind
		metrics.IncTransition("order", "conflict")
		cur, gerr := s.repo.GetByID(ctx, id)
		if gerr != nil {
			return odomain.Order{}, fmt.Errorf("reload order after conflict: %w", gerr)
		}
		return odomain.Order{}, odomain.InvalidTransitionError{From: cur.Status, To: next}
	}
	if err != nil {
		metrics.IncTransition("order", "error")
		return odomain.Order{}, fmt.Errorf("persist order status: %w", err)
	}

	metrics.IncTransition("order", "success")
	_ = s.pub.Publish(ctx, evdomain.Event{
		Type:     "order.status.changed",
		TenantID: updated.TenantID,
		ActorID:  actor.UserID,
		EntityID: updated.ID,
		Meta:     map[string]string{"from": string(order.Status), "to": string(next)},
		Time:     time.Now().UTC(),
	})
	return updated, nil
}
