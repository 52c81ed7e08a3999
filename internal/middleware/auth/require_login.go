package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// Session is the part of the session container the guards read.
type Session interface {
	IsAuthenticated(ctx context.Context) bool
	User() *models.User
}

// RequireLogin rejects requests while no access token is stored. The token is
// not verified here; the commerce API does that.
func RequireLogin(s Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if !s.IsAuthenticated(ctx) {
				logging.FromContext(ctx).Warn("auth_required", "status", http.StatusUnauthorized, "reason", "no stored token")
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			return next(c)
		}
	}
}
