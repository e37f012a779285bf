package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type SiteHTTP struct {
	Svc *service.SiteService
}

// Get writes null while nothing is configured.
func (h *SiteHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "site_get")

	cfg, err := h.Svc.Get(ctx)
	if err != nil {
		return fail(l, "get_failed", err, "")
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *SiteHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "site_update")

	var patch models.SiteConfig
	if err := bind(c, l, "update_failed", &patch); err != nil {
		return err
	}
	if _, err := h.Svc.Update(ctx, patch); err != nil {
		return fail(l, "update_failed", err, "")
	}
	l.Info("site_config_updated")
	return c.JSON(http.StatusOK, transport.OkResponse{OK: true})
}
