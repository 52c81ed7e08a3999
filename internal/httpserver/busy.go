package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/state"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// busy refuses a mutating request while the container already has one in
// flight, the way a disabled submit button would.
func busy(status func() state.Status) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if status() == state.Pending {
				logging.FromContext(c.Request().Context()).Warn("request_rejected", "status", http.StatusConflict, "reason", "busy")
				return echo.NewHTTPError(http.StatusConflict, "request already in progress")
			}
			return next(c)
		}
	}
}
