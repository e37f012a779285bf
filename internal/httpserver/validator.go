package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
)

// RequestValidator plugs the service validation rules into echo so
// c.Validate reports the same field errors the services do.
type RequestValidator struct{}

func (RequestValidator) Validate(i any) error {
	return service.Check(i)
}

// bind decodes the body into dst and validates it.
func bind(c echo.Context, l *slog.Logger, event string, dst any) error {
	if err := c.Bind(dst); err != nil {
		return badBody(l, event, err)
	}
	if err := c.Validate(dst); err != nil {
		return fail(l, event, err, "")
	}
	return nil
}
