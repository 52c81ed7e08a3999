package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/forms"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Store *store.Store
}

func (h *CartHTTP) respond(c echo.Context, l *slog.Logger, op string, err error) error {
	snap := h.Store.Cart.Snapshot()
	if err != nil {
		code := statusFor(err)
		l.Warn(op+"_failed", "status", code, "reason", snap.Error, "error", err)
		return echo.NewHTTPError(code, snap.Error)
	}
	l.Info(op+"_success", "items", snap.TotalItems)
	return c.JSON(http.StatusOK, toCartView(snap))
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")
	return h.respond(c, l, "get_cart", h.Store.Cart.Fetch(ctx))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req forms.AddItem
	if err := bindForm(c, &req); err != nil {
		l.Warn("add_item_rejected", "status", 422, "reason", "invalid form")
		return err
	}
	return h.respond(c, l, "add_item", h.Store.Cart.AddItem(ctx, req.ProductID, req.Quantity))
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req forms.UpdateItem
	if err := bindForm(c, &req); err != nil {
		l.Warn("update_item_rejected", "status", 422, "reason", "invalid form")
		return err
	}
	return h.respond(c, l, "update_item", h.Store.Cart.UpdateItem(ctx, id, req.Quantity))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	return h.respond(c, l, "remove_item", h.Store.Cart.RemoveItem(ctx, id))
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")
	return h.respond(c, l, "clear_cart", h.Store.Cart.Clear(ctx))
}
