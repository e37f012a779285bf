package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type UploadHTTP struct {
	Svc *service.UploadService
}

func (h *UploadHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload")

	var req transport.UploadRequest
	if err := bind(c, l, "upload_failed", &req); err != nil {
		return err
	}
	urls, err := h.Svc.Save(ctx, req)
	if err != nil {
		return fail(l, "upload_failed", err, "")
	}
	return c.JSON(http.StatusCreated, transport.UploadResult{URLs: urls})
}
