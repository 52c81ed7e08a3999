package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

const roleAdmin = "ADMIN"

// RequireAdmin hides the admin pass-through routes from non-admin sessions.
// It only mirrors the role the API reported at login; the API still enforces
// its own rules.
func RequireAdmin(s Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return RequireLogin(s)(func(c echo.Context) error {
			u := s.User()
			if u == nil || !strings.EqualFold(strings.TrimPrefix(u.Role, "ROLE_"), roleAdmin) {
				logging.FromContext(c.Request().Context()).Warn("admin_required", "status", http.StatusForbidden)
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		})
	}
}
