package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apierr"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// OrderHTTP passes order calls through to the API. Orders have no container.
type OrderHTTP struct {
	Store *store.Store
}

type createOrderForm struct {
	ShippingAddress models.Address     `json:"shippingAddress" validate:"required"`
	PaymentMethod   string             `json:"paymentMethod"   validate:"required"`
	Items           []models.OrderItem `json:"orderItems"`
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req createOrderForm
	if err := bindForm(c, &req); err != nil {
		l.Warn("create_order_rejected", "status", 422, "reason", "invalid form")
		return err
	}

	o, err := h.Store.API.CreateOrder(ctx, models.Order{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Items:           req.Items,
	})
	if err != nil {
		code := statusFor(err)
		l.Warn("create_order_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, apierr.Message(err, "Failed to create order"))
	}
	l.Info("create_order_success", "order_id", o.ID)
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	o, err := h.Store.API.Order(ctx, id)
	if err != nil {
		code := statusFor(err)
		l.Warn("get_order_failed", "status", code, "order_id", id, "error", err)
		return echo.NewHTTPError(code, apierr.Message(err, "Failed to fetch order"))
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	o, err := h.Store.API.CancelOrder(ctx, id)
	if err != nil {
		code := statusFor(err)
		l.Warn("cancel_order_failed", "status", code, "order_id", id, "error", err)
		return echo.NewHTTPError(code, apierr.Message(err, "Failed to cancel order"))
	}
	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, o)
}
