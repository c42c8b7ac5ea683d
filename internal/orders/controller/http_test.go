package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adomain "github.com/Black1604/cloud1604-solution/internal/auth/domain"
	odomain "github.com/Black1604/cloud1604-solution/internal/orders/domain"
	"github.com/Black1604/cloud1604-solution/internal/platform/validation"
)

type stubService struct {
	order    odomain.Order
	err      error
	lastNext odomain.Status
	calls    int
}

func (s *stubService) Transition(ctx context.Context, actor adomain.Actor, id uuid.UUID, next odomain.Status) (odomain.Order, error) {
	s.calls++
	s.lastNext = next
	if s.err != nil {
		return odomain.Order{}, s.err
	}
	o := s.order
	o.Status = next
	if next == odomain.StatusShipped {
		d := time.Date(2024, time.June, 8, 12, 0, 0, 0, time.UTC)
		o.DeliveryDate = &d
	}
	return o, nil
}

func actorMW(actor adomain.Actor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("auth_actor", actor)
			return next(c)
		}
	}
}

func newServer(svc *stubService, actor *adomain.Actor) *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	h := New(svc)
	if actor != nil {
		h.WithJWT(actorMW(*actor))
	}
	h.Register(e)
	return e
}

func patchStatus(e *echo.Echo, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/v1/sales-orders/"+id+"/status", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUpdateStatus_OK(t *testing.T) {
	order := odomain.Order{
		ID:          uuid.New(),
		TenantID:    uuid.New(),
		OrderNumber: "SO-2024-001",
		Status:      odomain.StatusProcessing,
		Items: []odomain.LineItem{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: 15},
		},
		Total: 30,
	}
	svc := &stubService{order: order}
	actor := adomain.Actor{UserID: uuid.New(), Roles: []string{"SALES_OFFICER"}}
	e := newServer(svc, &actor)

	rec := patchStatus(e, order.ID.String(), `{"status":"SHIPPED"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, odomain.StatusShipped, svc.lastNext)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SHIPPED", body["status"])
	assert.Equal(t, "SO-2024-001", body["order_number"])
	assert.NotEmpty(t, body["delivery_date"])
	items, ok := body["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestUpdateStatus_Unauthorized(t *testing.T) {
	svc := &stubService{}
	e := newServer(svc, nil)

	rec := patchStatus(e, uuid.NewString(), `{"status":"SHIPPED"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	actor := adomain.Actor{UserID: uuid.New(), Roles: []string{"ADMIN"}}
	e := newServer(&stubService{}, &actor)

	// PAID is an invoice status, not an order status
	rec := patchStatus(e, uuid.NewString(), `{"status":"PAID"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateStatus_ErrorMapping(t *testing.T) {
	actor := adomain.Actor{UserID: uuid.New(), Roles: []string{"SALES_OFFICER"}}
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"forbidden", odomain.ForbiddenError{Roles: []string{"FINANCE"}}, http.StatusForbidden},
		{"invalid transition", odomain.InvalidTransitionError{From: odomain.StatusDelivered, To: odomain.StatusShipped}, http.StatusBadRequest},
		{"not found", odomain.ErrNotFound, http.StatusNotFound},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newServer(&stubService{err: tt.err}, &actor)
			rec := patchStatus(e, uuid.NewString(), `{"status":"SHIPPED"}`)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}
