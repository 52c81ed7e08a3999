// Package httpserver is the local presentation layer: it validates user
// input, drives the state containers and renders their snapshots as JSON.
package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/forms"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/store"
)

type Deps struct {
	Store *store.Store
	// Ready reports whether backing services (credential store) respond.
	Ready func(ctx context.Context) error
	// CSRF is nil to disable the double-submit check.
	CSRF *csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = forms.New()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	var mws []echo.MiddlewareFunc
	if d.CSRF != nil {
		mws = append(mws, csrf.Middleware(*d.CSRF))
	}
	api := e.Group("/api", mws...)

	api.GET("/state", func(c echo.Context) error {
		return c.JSON(http.StatusOK, toStateView(d.Store.Snapshot()))
	})

	s := d.Store
	authH := &AuthHTTP{Store: s}
	sessionBusy := busy(s.Session.Status)

	auth := api.Group("/auth")
	auth.POST("/login", authH.Login, sessionBusy)
	auth.POST("/register", authH.Register, sessionBusy)
	auth.POST("/refresh", authH.Refresh, sessionBusy)
	auth.POST("/logout", authH.Logout)
	auth.DELETE("/error", authH.ClearError)
	auth.GET("/me", authH.Me)

	catH := &CatalogHTTP{Store: s}
	products := api.Group("/products")
	products.GET("", catH.GetProducts)
	products.GET("/search", catH.Search)
	products.GET("/category/:id", catH.GetByCategory)
	products.GET("/:id", catH.GetProduct)
	products.DELETE("/selected", catH.ClearSelected)

	admin := api.Group("/admin/products", authmw.RequireAdmin(s.Session))
	admin.POST("", catH.CreateProduct)
	admin.PUT("/:id", catH.UpdateProduct)
	admin.DELETE("/:id", catH.DeleteProduct)

	cartH := &CartHTTP{Store: s}
	cartBusy := busy(s.Cart.Status)
	cart := api.Group("/cart", authmw.RequireLogin(s.Session))
	cart.GET("", cartH.GetCart)
	cart.POST("/items", cartH.AddItem, cartBusy)
	cart.PUT("/items/:id", cartH.UpdateItem, cartBusy)
	cart.DELETE("/items/:id", cartH.RemoveItem, cartBusy)
	cart.DELETE("", cartH.Clear, cartBusy)

	orderH := &OrderHTTP{Store: s}
	orders := api.Group("/orders", authmw.RequireLogin(s.Session))
	orders.POST("", orderH.Create)
	orders.GET("/:id", orderH.Get)
	orders.PUT("/:id/cancel", orderH.Cancel)
}
