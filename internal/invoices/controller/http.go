package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	amw "github.com/Black1604/cloud1604-solution/internal/auth/middleware"
	invdomain "github.com/Black1604/cloud1604-solution/internal/invoices/domain"
	"github.com/Black1604/cloud1604-solution/internal/platform/validation"
)

type Controller struct {
	service invdomain.Service
	jwtMW   echo.MiddlewareFunc
}

func New(service invdomain.Service) *Controller { return &Controller{service: service} }

// WithJWT injects the authentication middleware.
func (h *Controller) WithJWT(mw echo.MiddlewareFunc) *Controller {
	h.jwtMW = mw
	return h
}

// Register mounts invoice endpoints under /v1.
func (h *Controller) Register(e *echo.Echo) {
	mw := []echo.MiddlewareFunc{}
	if h.jwtMW != nil {
		mw = append(mw, h.jwtMW)
	}
	e.PATCH("/v1/invoices/:id/status", h.updateStatus, mw...)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type invoiceResponse struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	InvoiceNumber string     `json:"invoice_number"`
	SalesOrderID  uuid.UUID  `json:"sales_order_id"`
	CustomerName  string     `json:"customer_name"`
	Total         float64    `json:"total"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        string     `json:"status"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (h *Controller) updateStatus(c echo.Context) error {
	actor, ok := amw.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid invoice id"})
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, validation.ErrorResponse(err))
	}
	next := invdomain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !next.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "unknown invoice status"})
	}

	inv, err := h.service.Transition(c.Request().Context(), actor, id, next)
	if err != nil {
		var forbidden invdomain.ForbiddenError
		var invalid invdomain.InvalidTransitionError
		switch {
		case errors.As(err, &forbidden):
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		case errors.As(err, &invalid):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": invalid.Error()})
		case errors.Is(err, invdomain.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "invoice not found"})
		}
		c.Logger().Errorf("invoice status update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, invoiceResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		SalesOrderID:  inv.SalesOrderID,
		CustomerName:  inv.CustomerName,
		Total:         inv.Total,
		DueDate:       inv.DueDate,
		Status:        string(inv.Status),
		UpdatedAt:     inv.UpdatedAt,
	})
}
