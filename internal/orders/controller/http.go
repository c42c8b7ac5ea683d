package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	amw "github.com/Black1604/cloud1604-solution/internal/auth/middleware"
	odomain "github.com/Black1604/cloud1604-solution/internal/orders/domain"
	"github.com/Black1604/cloud1604-solution/internal/platform/validation"
)

type Controller struct {
	service odomain.Service
	jwtMW   echo.MiddlewareFunc
}

func New(service odomain.Service) *Controller { return &Controller{service: service} }

// WithJWT injects the authentication middleware.
func (h *Controller) WithJWT(mw echo.MiddlewareFunc) *Controller {
	h.jwtMW = mw
	return h
}

// Register mounts sales order endpoints under /v1.
func (h *Controller) Register(e *echo.Echo) {
	mw := []echo.MiddlewareFunc{}
	if h.jwtMW != nil {
		mw = append(mw, h.jwtMW)
	}
	e.PATCH("/v1/sales-orders/:id/status", h.updateStatus, mw...)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type lineItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

type orderResponse struct {
	ID           uuid.UUID          `json:"id"`
	TenantID     uuid.UUID          `json:"tenant_id"`
	OrderNumber  string             `json:"order_number"`
	CustomerName string             `json:"customer_name"`
	Items        []lineItemResponse `json:"items"`
	Total        float64            `json:"total"`
	DeliveryDate *time.Time         `json:"delivery_date,omitempty"`
	Status       string             `json:"status"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (h *Controller) updateStatus(c echo.Context) error {
	actor, ok := amw.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, validation.ErrorResponse(err))
	}
	next := odomain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !next.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "unknown order status"})
	}

	order, err := h.service.Transition(c.Request().Context(), actor, id, next)
	if err != nil {
		var forbidden odomain.ForbiddenError
		var invalid odomain.InvalidTransitionError
		switch {
		case errors.As(err, &forbidden):
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		case errors.As(err, &invalid):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": invalid.Error()})
		case errors.Is(err, odomain.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "sales order not found"})
		}
		c.Logger().Errorf("order status update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	items := make([]lineItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemResponse{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	return c.JSON(http.StatusOK, orderResponse{
		ID:           order.ID,
		TenantID:     order.TenantID,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		Items:        items,
		Total:        order.Total,
		DeliveryDate: order.DeliveryDate,
		Status:       string(order.Status),
		UpdatedAt:    order.UpdatedAt,
	})
}
