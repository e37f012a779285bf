package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/shipping"
)

type errorBody struct {
	Message string               `json:"message"`
	Details []service.FieldError `json:"details,omitempty"`
}

// HTTPErrorHandler renders every error as {"message": ..., "details": ...}.
// Anything that is not an *echo.HTTPError becomes a bare 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	body := errorBody{Message: "internal error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case errorBody:
			body = m
		case string:
			body.Message = m
		case error:
			body.Message = m.Error()
		default:
			body.Message = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// fail maps service errors onto HTTP responses and logs them under event.
// notFound overrides the 404 message when set.
func fail(l *slog.Logger, event string, err error, notFound string) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		l.Warn(event, "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, errorBody{Message: "Validation failed", Details: verr.Details})
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, stripSentinel(err, service.ErrValidation))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		if notFound == "" {
			notFound = stripSentinel(err, service.ErrNotFound)
		}
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrInsufficientStock):
		l.Warn(event, "status", 409, "reason", "insufficient stock", "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAdminExists):
		l.Warn(event, "status", 400, "reason", "admin exists")
		return echo.NewHTTPError(http.StatusBadRequest, "Admin already set up")
	case errors.Is(err, service.ErrAdminMissing):
		l.Warn(event, "status", 409, "reason", "admin missing")
		return echo.NewHTTPError(http.StatusConflict, "Admin account is not set up yet. Use the setup form on the login page.")
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, stripSentinel(err, service.ErrConflict))
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, shipping.ErrNotConfigured):
		l.Warn(event, "status", 400, "reason", "shipping not configured")
		return echo.NewHTTPError(http.StatusBadRequest, "Shipping API is not configured")
	}
	l.Error(event, "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

// stripSentinel turns "not found: product not found: 5" into
// "product not found: 5".
func stripSentinel(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func badBody(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}

// parseID answers 404 for ids that cannot exist.
func parseID(c echo.Context, l *slog.Logger, event string) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		l.Warn(event, "status", 404, "reason", "invalid id", "id", c.Param("id"))
		return 0, echo.NewHTTPError(http.StatusNotFound, "Invalid ID")
	}
	return uint(n), nil
}
