package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Black1604/cloud1604-solution/internal/config"
	edomain "github.com/Black1604/cloud1604-solution/internal/email/domain"
	sdomain "github.com/Black1604/cloud1604-solution/internal/settings/domain"
)

// Ensure Router implements domain.Sender
var _ edomain.Sender = (*Router)(nil)

// Router picks the mail provider per tenant: the settings service decides,
// config supplies the default.
type Router struct {
	cfg      config.Config
	settings sdomain.Service
	smtp     edomain.Sender
	brevo    edomain.Sender
}

func NewRouter(settings sdomain.Service, cfg config.Config) *Router {
	return &Router{cfg: cfg, settings: settings, smtp: NewSMTP(settings, cfg), brevo: NewBrevo(settings, cfg)}
}

func (r *Router) Send(ctx context.Context, tenantID uuid.UUID, msg edomain.Message) error {
	prov, _ := r.settings.GetString(ctx, sdomain.KeyEmailProvider, &tenantID, r.cfg.EmailProvider)
	switch strings.ToLower(prov) {
	case "brevo":
		return r.brevo.Send(ctx, tenantID, msg)
	default:
		return r.smtp.Send(ctx, tenantID, msg)
	}
}
