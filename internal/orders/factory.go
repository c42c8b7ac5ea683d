package orders

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	amw "github.com/Black1604/cloud1604-solution/internal/auth/middleware"
	"github.com/Black1604/cloud1604-solution/internal/config"
	evsvc "github.com/Black1604/cloud1604-solution/internal/events/service"
	ctrl "github.com/Black1604/cloud1604-solution/internal/orders/controller"
	repo "github.com/Black1604/cloud1604-solution/internal/orders/repository"
	svc "github.com/Black1604/cloud1604-solution/internal/orders/service"
)

// Register wires the sales orders module and registers HTTP routes.
func Register(e *echo.Echo, pg *pgxpool.Pool, cfg config.Config, log zerolog.Logger) {
	r := repo.New(pg)
	pub := evsvc.NewLogger(log)

	s := svc.New(r, pub, cfg, log)
	c := ctrl.New(s).WithJWT(amw.NewJWT(cfg))
	c.Register(e)
}
