package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type ShippingHTTP struct {
	Svc *service.ShippingService
}

func (h *ShippingHTTP) Configured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shipping_configured")

	ok, err := h.Svc.Configured(ctx)
	if err != nil {
		return fail(l, "configured_failed", err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"configured": ok})
}

func (h *ShippingHTTP) Config(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shipping_config")

	view, err := h.Svc.Config(ctx)
	if err != nil {
		return fail(l, "config_failed", err, "")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ShippingHTTP) UpdateConfig(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shipping_update_config")

	var req transport.ShippingConfigRequest
	if err := bind(c, l, "update_failed", &req); err != nil {
		return err
	}
	if err := h.Svc.UpdateConfig(ctx, req); err != nil {
		return fail(l, "update_failed", err, "")
	}
	l.Info("shipping_config_updated")
	return c.JSON(http.StatusOK, transport.OkResponse{OK: true})
}

// Dispatch accepts an empty body, which means every pending order.
func (h *ShippingHTTP) Dispatch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shipping_dispatch")

	var req transport.DispatchRequest
	if err := bind(c, l, "dispatch_failed", &req); err != nil {
		return err
	}
	res, err := h.Svc.Dispatch(ctx, req)
	if err != nil {
		return fail(l, "dispatch_failed", err, "")
	}
	l.Info("dispatch_finished", "attempted", res.Attempted, "sent", res.Sent, "failed", res.Failed)
	return c.JSON(http.StatusOK, res)
}
