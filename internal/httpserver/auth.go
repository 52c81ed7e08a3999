package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/forms"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AuthHTTP struct {
	Store *store.Store
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req forms.Login
	if err := bindForm(c, &req); err != nil {
		l.Warn("login_rejected", "status", 422, "reason", "invalid form")
		return err
	}

	if err := h.Store.Login(ctx, req.Email, req.Password); err != nil {
		snap := h.Store.Session.Snapshot()
		code := statusFor(err)
		l.Warn("login_failed", "status", code, "reason", snap.Error, "error", err)
		return echo.NewHTTPError(code, snap.Error)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, h.Store.Session.Snapshot())
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req forms.Register
	if err := bindForm(c, &req); err != nil {
		l.Warn("register_rejected", "status", 422, "reason", "invalid form")
		return err
	}

	body, err := h.Store.Session.Register(ctx, req.Request())
	if err != nil {
		snap := h.Store.Session.Snapshot()
		code := statusFor(err)
		l.Warn("register_failed", "status", code, "reason", snap.Error, "error", err)
		return echo.NewHTTPError(code, snap.Error)
	}

	l.Info("register_success")
	if len(body) == 0 {
		return c.NoContent(http.StatusCreated)
	}
	return c.JSONBlob(http.StatusCreated, body)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	if err := h.Store.Session.Refresh(ctx); err != nil {
		snap := h.Store.Session.Snapshot()
		code := statusFor(err)
		l.Warn("refresh_failed", "status", code, "reason", snap.Error, "error", err)
		return echo.NewHTTPError(code, snap.Error)
	}
	l.Info("refresh_success")
	return c.JSON(http.StatusOK, h.Store.Session.Snapshot())
}

// Logout always succeeds locally.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	h.Store.Logout(ctx)
	logging.FromContext(ctx).With("handler", "auth.logout").Info("logout_success")
	return c.JSON(http.StatusOK, h.Store.Session.Snapshot())
}

func (h *AuthHTTP) ClearError(c echo.Context) error {
	h.Store.Session.ClearError()
	return c.JSON(http.StatusOK, h.Store.Session.Snapshot())
}

type claimsView struct {
	Subject   string `json:"subject"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

// Me shows the unverified claims of the stored access token.
func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := h.Store.Session.Claims(ctx)
	if err != nil {
		logging.FromContext(ctx).With("handler", "auth.me").Debug("claims_unavailable", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no readable token")
	}
	v := claimsView{Subject: claims.Subject, Role: claims.Role}
	if exp := claims.Expiry(); !exp.IsZero() {
		v.ExpiresAt = exp.Unix()
	}
	return c.JSON(http.StatusOK, v)
}
