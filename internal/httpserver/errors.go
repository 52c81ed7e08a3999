package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/apierr"
	"github.com/Skotchmaster/storefront/internal/forms"
	"github.com/Skotchmaster/storefront/internal/state"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// statusFor maps a container failure to the status the presentation layer
// answers with. Client errors from the API pass through; anything else is a
// bad gateway.
func statusFor(err error) int {
	var e *apierr.Error
	switch {
	case errors.Is(err, state.ErrDiscarded):
		return http.StatusConflict
	case errors.As(err, &e) && e.Kind == apierr.KindServer && e.Status >= 400 && e.Status < 500:
		return e.Status
	case errors.Is(err, apierr.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// bindForm binds and validates the request body into dst. A validation
// failure becomes a 422 carrying the failing fields.
func bindForm(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(dst); err != nil {
		var f *forms.Failure
		if errors.As(err, &f) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
				"message": "validation failed",
				"fields":  f.Fields,
			})
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}
