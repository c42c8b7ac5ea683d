package invoices

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	amw "github.com/Black1604/cloud1604-solution/internal/auth/middleware"
	"github.com/Black1604/cloud1604-solution/internal/config"
	equeue "github.com/Black1604/cloud1604-solution/internal/email/queue"
	"github.com/Black1604/cloud1604-solution/internal/email/render"
	evsvc "github.com/Black1604/cloud1604-solution/internal/events/service"
	ctrl "github.com/Black1604/cloud1604-solution/internal/invoices/controller"
	repo "github.com/Black1604/cloud1604-solution/internal/invoices/repository"
	svc "github.com/Black1604/cloud1604-solution/internal/invoices/service"
	srepo "github.com/Black1604/cloud1604-solution/internal/settings/repository"
	ssvc "github.com/Black1604/cloud1604-solution/internal/settings/service"
)

// Register wires the invoices module and registers HTTP routes.
func Register(e *echo.Echo, pg *pgxpool.Pool, rc *redis.Client, cfg config.Config, log zerolog.Logger) {
	r := repo.New(pg)
	settings := ssvc.New(srepo.New(pg))
	queue := equeue.New(rc, cfg, log)
	renderer := render.New(render.Branding{
		CompanyName:       cfg.CompanyName,
		CompanyEmail:      cfg.CompanyEmail,
		CompanyPhone:      cfg.CompanyPhone,
		CompanyLogo:       cfg.CompanyLogo,
		BankName:          cfg.BankName,
		BankAccountName:   cfg.BankAccountName,
		BankAccountNumber: cfg.BankAccountNumber,
	})
	pub := evsvc.NewLogger(log)

	s := svc.New(r, settings, queue, renderer, pub, cfg, log)
	c := ctrl.New(s).WithJWT(amw.NewJWT(cfg))
	c.Register(e)
}
