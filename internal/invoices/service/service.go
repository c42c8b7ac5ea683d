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
	edomain "github.com/Black1604/cloud1604-solution/internal/email/domain"
	"github.com/Black1604/cloud1604-solution/internal/email/render"
	evdomain "github.com/Black1604/cloud1604-solution/internal/events/domain"
	invdomain "github.com/Black1604/cloud1604-solution/internal/invoices/domain"
	"github.com/Black1604/cloud1604-solution/internal/metrics"
	sdomain "github.com/Black1604/cloud1604-solution/internal/settings/domain"
)

type service struct {
	repo     invdomain.Repository
	settings sdomain.Service
	queue    edomain.Queue
	renderer *render.Renderer
	pub      evdomain.Publisher
	cfg      config.Config
	log      zerolog.Logger
}

func New(repo invdomain.Repository, settings sdomain.Service, queue edomain.Queue, renderer *render.Renderer, pub evdomain.Publisher, cfg config.Config, log zerolog.Logger) invdomain.Service {
	return &service{repo: repo, settings: settings, queue: queue, renderer: renderer, pub: pub, cfg: cfg, log: log}
}

// Transition validates and persists a status change. Gates fire in order:
// authorization, transition legality, conditional persist. The notification
// enqueue at the end is best-effort and never unwinds the committed change.
func (s *service) Transition(ctx context.Context, actor adomain.Actor, id uuid.UUID, next invdomain.Status) (invdomain.Invoice, error) {
	if !actor.HasAnyRole(invdomain.AllowedRoles...) {
		metrics.IncTransition("invoice", "forbidden")
		return invdomain.Invoice{}, invdomain.ForbiddenError{Roles: actor.Roles}
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, invdomain.ErrNotFound) {
			return invdomain.Invoice{}, err
		}
		metrics.IncTransition("invoice", "error")
		return invdomain.Invoice{}, fmt.Errorf("load invoice: %w", err)
	}

	if !inv.Status.CanTransitionTo(next) {
		metrics.IncTransition("invoice", "invalid")
		return invdomain.Invoice{}, invdomain.InvalidTransitionError{From: inv.Status, To: next}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, inv.Status, next)
	if errors.Is(err, invdomain.ErrStaleStatus) {
		// a concurrent transition won; re-validate against what it left behind
		metrics.IncTransition("invoice", "conflict")
		cur, gerr := s.repo.GetByID(ctx, id)
		if gerr != nil {
			return invdomain.Invoice{}, fmt.Errorf("reload invoice after conflict: %w", gerr)
		}
		return invdomain.Invoice{}, invdomain.InvalidTransitionError{From: cur.Status, To: next}
	}
	if err != nil {
		metrics.IncTransition("invoice", "error")
		return invdomain.Invoice{}, fmt.Errorf("persist invoice status: %w", err)
	}

	metrics.IncTransition("invoice", "success")
	_ = s.pub.Publish(ctx, evdomain.Event{
		Type:     "invoice.status.changed",
		TenantID: updated.TenantID,
		ActorID:  actor.UserID,
		EntityID: updated.ID,
		Meta:     map[string]string{"from": string(inv.Status), "to": string(next)},
		Time:     time.Now().UTC(),
	})

	s.notify(ctx, updated)
	return updated, nil
}

// notify queues the status-change email when a destination is known. Failures
// are logged and counted only; the transition already committed.
func (s *service) notify(ctx context.Context, inv invdomain.Invoice) {
	if inv.CustomerEmail == "" {
		return
	}

	companyName, _ := s.settings.GetString(ctx, sdomain.KeyCompanyName, &inv.TenantID, s.cfg.CompanyName)
	content := s.renderer.InvoiceStatus(render.InvoiceContext{
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		CustomerName:  inv.CustomerName,
		Total:         inv.Total,
		DueDate:       inv.DueDate,
		CompanyName:   companyName,
	})

	jobID, err := s.queue.Enqueue(ctx, inv.TenantID, edomain.Message{
		To:      inv.CustomerEmail,
		Subject: content.Subject,
		Text:    content.Text,
		HTML:    content.HTML,
	})
	if err != nil {
		s.log.Error().
			Err(err).
			Str("invoice_id", inv.ID.String()).
			Str("to", inv.CustomerEmail).
			Msg("failed to enqueue status notification")
		_ = s.pub.Publish(ctx, evdomain.Event{
			Type:     "email.enqueue.failed",
			TenantID: inv.TenantID,
			EntityID: inv.ID,
			Meta:     map[string]string{"to": inv.CustomerEmail, "status": string(inv.Status)},
			Time:     time.Now().UTC(),
		})
		return
	}
	s.log.Debug().
		Str("invoice_id", inv.ID.String()).
		Str("job_id", jobID).
		Msg("status notification enqueued")
}
