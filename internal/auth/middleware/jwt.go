package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	adomain "github.com/Black1604/cloud1604-solution/internal/auth/domain"
	"github.com/Black1604/cloud1604-solution/internal/config"
)

const ctxActorKey = "auth_actor"

// NewJWT returns an Echo middleware that validates access JWTs and stores the
// acting user, tenant and roles in the context.
func NewJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			tokStr := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(tokStr, func(token *jwt.Token) (any, error) {
				return []byte(cfg.JWTSigningKey), nil
			}, jwt.WithLeeway(30*time.Second), jwt.WithIssuedAt(), jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			ten, _ := claims["ten"].(string)
			uid, err1 := uuid.Parse(sub)
			tid, err2 := uuid.Parse(ten)
			if err1 != nil || err2 != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid subject or tenant"})
			}

			var roles []string
			if raw, ok := claims["roles"].([]any); ok {
				for _, r := range raw {
					if s, ok := r.(string); ok && s != "" {
						roles = append(roles, s)
					}
				}
			}

			c.Set(ctxActorKey, adomain.Actor{UserID: uid, TenantID: tid, Roles: roles})
			return next(c)
		}
	}
}

// ActorFrom returns the authenticated actor from context.
func ActorFrom(c echo.Context) (adomain.Actor, bool) {
	v := c.Get(ctxActorKey)
	if v == nil {
		return adomain.Actor{}, false
	}
	a, ok := v.(adomain.Actor)
	return a, ok
}
