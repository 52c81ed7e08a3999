package httpserver

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apierr"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Store *store.Store
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}
	return id, nil
}

func (h *CatalogHTTP) respond(c echo.Context, l *slog.Logger, op string, err error) error {
	snap := h.Store.Catalog.Snapshot()
	if err != nil {
		code := statusFor(err)
		l.Warn(op+"_failed", "status", code, "reason", snap.Error, "error", err)
		return echo.NewHTTPError(code, snap.Error)
	}
	l.Info(op + "_success")
	return c.JSON(http.StatusOK, toCatalogView(snap))
}

// GetProducts takes a one-based page and a sort preset name.
func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	page := util.ZeroBasedPage(util.ParseIntDefault(c.QueryParam("page"), 1))
	size := util.ClampPageSize(util.ParseIntDefault(c.QueryParam("size"), catalog.DefaultPageSize))
	sort := catalog.DefaultSort
	if preset := c.QueryParam("sort"); preset != "" {
		sort = catalog.SortFor(preset)
	}

	err := h.Store.Catalog.FetchPage(ctx, page, size, sort)
	return h.respond(c, l, "get_products", err)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.Store.Catalog.FetchByID(ctx, id)
	if err != nil {
		return h.respond(c, l, "get_product", err)
	}
	l.Info("get_product_success", "product_id", id)
	return c.JSON(http.StatusOK, toProductView(p))
}

func (h *CatalogHTTP) ClearSelected(c echo.Context) error {
	h.Store.Catalog.ClearSelected()
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) GetByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_by_category")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	return h.respond(c, l, "get_by_category", h.Store.Catalog.FetchByCategory(ctx, id))
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_rejected", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	return h.respond(c, l, "search", h.Store.Catalog.Search(ctx, q))
}

// Admin pass-through. Container state is left alone.

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req models.Product
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	p, err := h.Store.API.CreateProduct(ctx, req)
	if err != nil {
		code := statusFor(err)
		l.Warn("create_product_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, apierr.Message(err, "Failed to create product"))
	}
	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, toProductView(p))
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_product")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req models.Product
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	p, err := h.Store.API.UpdateProduct(ctx, id, req)
	if err != nil {
		code := statusFor(err)
		l.Warn("update_product_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, apierr.Message(err, "Failed to update product"))
	}
	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, toProductView(p))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Store.API.DeleteProduct(ctx, id); err != nil {
		code := statusFor(err)
		l.Warn("delete_product_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, apierr.Message(err, "Failed to delete product"))
	}
	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
